package training

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cypher-backend/internal/registry"
	"cypher-backend/internal/vapi"

	"github.com/gin-gonic/gin"
)

func testRouter(h Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/launch-training", h.LaunchTraining)
	r.POST("/api/webhook/vapi", h.VapiWebhook)
	r.GET("/api/health", h.Health)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("response not json: %v (%s)", err, w.Body.String())
		}
	}
	return w, out
}

func TestLaunchTraining_Success(t *testing.T) {
	placer := &fakePlacer{resp: vapi.Call{ID: "call_123", Status: "queued"}}
	store := registry.NewMemoryStore(time.Hour, 100)
	h := Handlers{Training: newTestService(placer, store, nil)}
	r := testRouter(h)

	w, out := doJSON(t, r, http.MethodPost, "/api/launch-training",
		`{"phoneNumber":"+15551234567","employeeName":"Rana","employeeEmail":"rana@example.com","scenario":{"id":"sc-1","title":"VibeCon registration"},"vectors":["email","voice"]}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if out["success"] != true || out["callId"] != "call_123" || out["status"] != "queued" {
		t.Fatalf("unexpected body: %v", out)
	}
	if out["message"] != "Training call initiated successfully" {
		t.Fatalf("unexpected message: %v", out["message"])
	}
	if store.Len() != 1 {
		t.Fatalf("expected one registered context")
	}
}

func TestLaunchTraining_MissingPhoneReturns400(t *testing.T) {
	placer := &fakePlacer{}
	store := registry.NewMemoryStore(time.Hour, 100)
	h := Handlers{Training: newTestService(placer, store, nil)}
	r := testRouter(h)

	w, out := doJSON(t, r, http.MethodPost, "/api/launch-training", `{"employeeName":"Rana"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if out["success"] != false || out["error"] != "Phone number is required" {
		t.Fatalf("unexpected body: %v", out)
	}
	if len(placer.requests) != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestLaunchTraining_NonE164Returns400(t *testing.T) {
	placer := &fakePlacer{}
	store := registry.NewMemoryStore(time.Hour, 100)
	h := Handlers{Training: newTestService(placer, store, nil)}
	r := testRouter(h)

	w, out := doJSON(t, r, http.MethodPost, "/api/launch-training", `{"phoneNumber":"5551234567"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if out["error"] != "Phone number must be in E.164 format (e.g., +1234567890)" {
		t.Fatalf("unexpected error: %v", out["error"])
	}
	if store.Len() != 0 {
		t.Fatalf("expected registry unchanged")
	}
}

func TestLaunchTraining_UpstreamFailurePassesStatusThrough(t *testing.T) {
	placer := &fakePlacer{err: &vapi.APIError{StatusCode: 402, Body: `{"message":"insufficient credit"}`}}
	store := registry.NewMemoryStore(time.Hour, 100)
	h := Handlers{Training: newTestService(placer, store, nil)}
	r := testRouter(h)

	w, out := doJSON(t, r, http.MethodPost, "/api/launch-training", `{"phoneNumber":"+15551234567"}`, nil)
	if w.Code != 402 {
		t.Fatalf("expected upstream 402, got %d", w.Code)
	}
	errText, _ := out["error"].(string)
	if !strings.HasPrefix(errText, "Vapi API Error: ") || !strings.Contains(errText, "insufficient credit") {
		t.Fatalf("expected raw upstream body surfaced, got %q", errText)
	}
}

func TestVapiWebhook_AlwaysAcks(t *testing.T) {
	store := registry.NewMemoryStore(time.Hour, 100)
	h := Handlers{Training: newTestService(&fakePlacer{}, store, nil)}
	r := testRouter(h)

	for _, body := range []string{
		`{"message":{"type":"end-of-call-report","call":{"id":"never-registered"}}}`,
		`{"message":{"type":"transcript"}}`,
		`not json at all`,
		`{}`,
	} {
		w, out := doJSON(t, r, http.MethodPost, "/api/webhook/vapi", body, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", body, w.Code)
		}
		if out["received"] != true {
			t.Fatalf("expected received:true for %q, got %v", body, out)
		}
	}
}

func TestVapiWebhook_EndToEndFlow(t *testing.T) {
	placer := &fakePlacer{resp: vapi.Call{ID: "call_123", Status: "queued"}}
	store := registry.NewMemoryStore(time.Hour, 100)
	mailer := &fakeMailer{}
	svc := newTestService(placer, store, nil)
	svc.mailer = mailer
	r := testRouter(Handlers{Training: svc})

	w, _ := doJSON(t, r, http.MethodPost, "/api/launch-training",
		`{"phoneNumber":"+15551234567","employeeName":"Rana","vectors":["email","voice"]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("launch failed: %d", w.Code)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one registered context after launch")
	}

	w, out := doJSON(t, r, http.MethodPost, "/api/webhook/vapi",
		`{"message":{"type":"end-of-call-report","call":{"id":"call_123","status":"ended","duration":93,"endedAt":"2024-05-01T12:01:33Z"}}}`, nil)
	if w.Code != http.StatusOK || out["received"] != true {
		t.Fatalf("unexpected webhook response: %d %v", w.Code, out)
	}
	if len(mailer.reports) != 1 {
		t.Fatalf("expected one completion email, got %d", len(mailer.reports))
	}
	if store.Len() != 0 {
		t.Fatalf("expected context evicted after terminal event")
	}
}

func TestVapiWebhook_SecretMismatchRejected(t *testing.T) {
	store := registry.NewMemoryStore(time.Hour, 100)
	mailer := &fakeMailer{}
	svc := newTestService(&fakePlacer{}, store, nil)
	svc.mailer = mailer
	store.Insert(context.Background(), registry.CallContext{CallID: "call_1"})
	r := testRouter(Handlers{Training: svc, WebhookSecret: "hook-secret"})

	w, _ := doJSON(t, r, http.MethodPost, "/api/webhook/vapi",
		`{"message":{"type":"end-of-call-report","call":{"id":"call_1"}}}`,
		map[string]string{"x-vapi-secret": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if store.Len() != 1 || len(mailer.reports) != 0 {
		t.Fatalf("expected no side effects on rejected webhook")
	}

	w, out := doJSON(t, r, http.MethodPost, "/api/webhook/vapi",
		`{"message":{"type":"end-of-call-report","call":{"id":"call_1"}}}`,
		map[string]string{"x-vapi-secret": "hook-secret"})
	if w.Code != http.StatusOK || out["received"] != true {
		t.Fatalf("expected matching secret accepted, got %d %v", w.Code, out)
	}
}

func TestHealth(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := Handlers{Now: func() time.Time { return fixed }}
	r := testRouter(h)

	w, out := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if out["status"] != "ok" || out["message"] != "Cypher backend is running" {
		t.Fatalf("unexpected body: %v", out)
	}
	if out["timestamp"] != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp: %v", out["timestamp"])
	}
}
