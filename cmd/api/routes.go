package main

import (
	"cypher-backend/internal/training"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h training.Handlers) {
	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/launch-training", h.LaunchTraining)

		// Provider webhook (public). Protected by the shared-secret header
		// check when VAPI_WEBHOOK_SECRET is set.
		api.POST("/webhook/vapi", h.VapiWebhook)
	}
}
