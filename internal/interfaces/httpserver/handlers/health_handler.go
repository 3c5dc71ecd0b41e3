package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chat-api/internal/interfaces/httpserver/dto"
)

// HealthHandler reports liveness and upstream configuration state.
type HealthHandler struct {
	chatflowConfigured bool
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(chatflowConfigured bool) *HealthHandler {
	return &HealthHandler{chatflowConfigured: chatflowConfigured}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthData{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Flowise: dto.FlowiseHealth{
			Configured: h.chatflowConfigured,
		},
	})
}
