package training

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"cypher-backend/internal/vapi"
	"cypher-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the training flow over HTTP.
// Keep these thin: parse/validate input, call the service, return JSON.
type Handlers struct {
	Training *Service

	// WebhookSecret, when non-empty, is required in the x-vapi-secret
	// header on webhook requests.
	WebhookSecret string

	Now func() time.Time
}

const healthMessage = "Cypher backend is running"

// LaunchTraining handles POST /api/launch-training.
func (h Handlers) LaunchTraining(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Training == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "training service not configured"})
		return
	}

	var req LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	ctx := logger.With(c.Request.Context(), log)
	res, err := h.Training.Launch(ctx, req)
	if err != nil {
		h.launchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"callId":  res.CallID,
		"status":  res.Status,
		"message": "Training call initiated successfully",
	})
}

func (h Handlers) launchError(c *gin.Context, err error) {
	log := logger.FromGin(c)

	switch {
	case errors.Is(err, ErrPhoneRequired):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Phone number is required"})
	case errors.Is(err, ErrPhoneFormat):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Phone number must be in E.164 format (e.g., +1234567890)"})
	default:
		var apiErr *vapi.APIError
		if errors.As(err, &apiErr) {
			// Surface the upstream status and raw error text verbatim.
			log.Error("vapi call failed", "status", apiErr.StatusCode, "body", apiErr.Body)
			c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"success": false, "error": "Vapi API Error: " + apiErr.Body})
			return
		}
		log.Error("launch failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}

// VapiWebhook handles POST /api/webhook/vapi.
//
// Everything is acknowledged with 200 so the provider never retries; a
// malformed body is logged and acked like any non-terminal event.
func (h Handlers) VapiWebhook(c *gin.Context) {
	log := logger.FromGin(c)

	if h.WebhookSecret != "" {
		got := c.GetHeader("x-vapi-secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.WebhookSecret)) != 1 {
			log.Warn("webhook secret mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	if h.Training == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "training service not configured"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn("webhook body read failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var env vapi.EventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Warn("webhook body not valid json", "err", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ctx := logger.With(c.Request.Context(), log)
	out := h.Training.HandleEvent(ctx, env)
	log.Debug("webhook handled",
		"type", env.Message.Type,
		"terminal", out.Terminal,
		"call_id", out.CallID,
		"matched", out.Matched,
		"email_sent", out.EmailSent,
	)

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Health handles GET /api/health.
func (h Handlers) Health(c *gin.Context) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   healthMessage,
		"timestamp": now().UTC().Format(time.RFC3339),
	})
}
