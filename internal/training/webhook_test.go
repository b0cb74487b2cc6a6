package training

import (
	"context"
	"testing"
	"time"

	"cypher-backend/internal/registry"
	"cypher-backend/internal/vapi"
)

func endedEvent(callID string) vapi.EventEnvelope {
	return vapi.EventEnvelope{Message: vapi.EventMessage{
		Type: "end-of-call-report",
		Call: &vapi.EventCall{ID: callID, Status: "ended", Duration: 93, EndedAt: "2024-05-01T12:01:33Z"},
	}}
}

func registeredService(t *testing.T, callID string, mailer *fakeMailer) (*Service, *registry.MemoryStore) {
	t.Helper()
	store := registry.NewMemoryStore(time.Hour, 100)
	svc := NewService(&fakePlacer{}, store, nil, "asst_1", "pn_1")
	if mailer != nil {
		svc.mailer = mailer
	}
	err := store.Insert(context.Background(), registry.CallContext{
		CallID:       callID,
		EmployeeName: "Rana",
		PhoneNumber:  "+15551234567",
		Scenario:     registry.Scenario{ID: "sc-1", Title: "VibeCon registration"},
		Vectors:      []string{"email", "voice"},
		StartedAt:    time.Unix(1700000000, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return svc, store
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		name string
		msg  vapi.EventMessage
		want bool
	}{
		{"end-of-call-report", vapi.EventMessage{Type: "end-of-call-report"}, true},
		{"call-ended type", vapi.EventMessage{Type: "call-ended"}, true},
		{"message status ended", vapi.EventMessage{Type: "status-update", Status: "ended"}, true},
		{"call status ended", vapi.EventMessage{Type: "status-update", Call: &vapi.EventCall{ID: "c", Status: "ended"}}, true},
		{"in-progress update", vapi.EventMessage{Type: "status-update", Status: "in-progress"}, false},
		{"transcript", vapi.EventMessage{Type: "transcript"}, false},
		{"speech-update", vapi.EventMessage{Type: "speech-update"}, false},
	}
	for _, tc := range cases {
		if got := isTerminal(tc.msg); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestHandleEvent_TerminalMatchSendsOneEmailAndEvicts(t *testing.T) {
	mailer := &fakeMailer{}
	svc, store := registeredService(t, "call_1", mailer)

	out := svc.HandleEvent(context.Background(), endedEvent("call_1"))
	if !out.Terminal || !out.Matched || !out.EmailSent {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(mailer.reports) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(mailer.reports))
	}
	r := mailer.reports[0]
	if r.Context.EmployeeName != "Rana" || r.DurationSeconds != 93 || r.EndedAt != "2024-05-01T12:01:33Z" || r.Status != "ended" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if store.Len() != 0 {
		t.Fatalf("expected registry entry evicted")
	}
}

func TestHandleEvent_ReplayIsNoOp(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := registeredService(t, "call_1", mailer)

	svc.HandleEvent(context.Background(), endedEvent("call_1"))
	out := svc.HandleEvent(context.Background(), endedEvent("call_1"))
	if out.Matched || out.EmailSent {
		t.Fatalf("expected replay to be a no-op, got %+v", out)
	}
	if len(mailer.reports) != 1 {
		t.Fatalf("expected at most one email across replays, got %d", len(mailer.reports))
	}
}

func TestHandleEvent_UnknownCallIDIsSilentlyAcked(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := registeredService(t, "call_1", mailer)

	out := svc.HandleEvent(context.Background(), endedEvent("someone-elses-call"))
	if !out.Terminal || out.Matched || out.EmailSent {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(mailer.reports) != 0 {
		t.Fatalf("expected no email for unknown call")
	}
}

func TestHandleEvent_NonTerminalLeavesRegistryIntact(t *testing.T) {
	mailer := &fakeMailer{}
	svc, store := registeredService(t, "call_1", mailer)

	out := svc.HandleEvent(context.Background(), vapi.EventEnvelope{Message: vapi.EventMessage{
		Type: "status-update",
		Call: &vapi.EventCall{ID: "call_1", Status: "in-progress"},
	}})
	if out.Terminal {
		t.Fatalf("expected non-terminal outcome")
	}
	if store.Len() != 1 {
		t.Fatalf("expected registry untouched")
	}
	if len(mailer.reports) != 0 {
		t.Fatalf("expected no email")
	}
}

func TestHandleEvent_EmailUnconfiguredIsSkippedNotFailed(t *testing.T) {
	svc, store := registeredService(t, "call_1", nil)

	out := svc.HandleEvent(context.Background(), endedEvent("call_1"))
	if !out.Matched || out.EmailSent {
		t.Fatalf("expected match without email, got %+v", out)
	}
	if store.Len() != 0 {
		t.Fatalf("expected entry evicted even without email")
	}
}

func TestHandleEvent_MailerFailureStillEvicts(t *testing.T) {
	mailer := &fakeMailer{err: context.DeadlineExceeded}
	svc, store := registeredService(t, "call_1", mailer)

	out := svc.HandleEvent(context.Background(), endedEvent("call_1"))
	if !out.Matched || out.EmailSent {
		t.Fatalf("expected failed email reflected in outcome, got %+v", out)
	}
	if store.Len() != 0 {
		t.Fatalf("expected entry evicted despite email failure")
	}
}
