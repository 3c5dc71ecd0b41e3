package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/infrastructure/metrics"
	"chat-api/internal/interfaces/httpserver/dto"
)

// TicketHandler exposes support ticket operations.
type TicketHandler struct {
	service     *ticket.Service
	environment string
	log         zerolog.Logger
}

// NewTicketHandler constructs the handler.
func NewTicketHandler(service *ticket.Service, environment string, log zerolog.Logger) *TicketHandler {
	return &TicketHandler{
		service:     service,
		environment: environment,
		log:         log.With().Str("handler", "ticket").Logger(),
	}
}

// Create handles POST /api/tickets/create.
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), ticket.CreateParams{
		ConversationID: req.ConversationID,
		Subject:        req.Subject,
		Description:    req.Description,
		Priority:       ticket.Priority(req.Priority),
		Category:       req.Category,
		Metadata:       req.Metadata,
		WebhookURL:     req.WebhookURL,
	})
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			respondNotFound(c, "Conversation not found")
			return
		}
		h.log.Error().Err(err).Msg("ticket creation failed")
		respondInternal(c, h.environment, err, "Failed to create ticket")
		return
	}

	metrics.TicketsCreatedTotal.Inc()
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    created,
	})
}

// Get handles GET /api/tickets/:ticketId.
func (h *TicketHandler) Get(c *gin.Context) {
	id := c.Param("ticketId")

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			respondNotFound(c, "Ticket not found")
			return
		}
		respondInternal(c, h.environment, err, "Failed to retrieve ticket")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    found,
	})
}
