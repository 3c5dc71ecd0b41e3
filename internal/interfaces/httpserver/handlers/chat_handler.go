package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/conversation"
	"chat-api/internal/infrastructure/metrics"
	"chat-api/internal/interfaces/httpserver/dto"
	"chat-api/internal/interfaces/httpserver/middlewares"
)

// ChatHandler exposes the chat pipeline over HTTP.
type ChatHandler struct {
	service     *chat.Service
	environment string
	log         zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service *chat.Service, environment string, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:     service,
		environment: environment,
		log:         log.With().Str("handler", "chat").Logger(),
	}
}

// Send handles POST /api/chat/send.
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.service.Send(c.Request.Context(), chat.SendParams{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Message:        req.Message,
		Metadata:       req.Metadata,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("chat send failed")
		respondInternal(c, h.environment, err, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data: dto.SendData{
			ConversationID:   result.Conversation.ID,
			UserMessage:      result.UserMessage,
			AssistantMessage: result.AssistantMessage,
		},
		Warning: result.Warning,
	})
}

// Stream handles POST /api/chat/stream. Events are relayed as SSE data
// frames carrying a type field, one JSON payload per frame.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	events, err := h.service.Stream(c.Request.Context(), chat.SendParams{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Message:        req.Message,
		Metadata:       req.Metadata,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("chat stream failed")
		respondInternal(c, h.environment, err, "Failed to stream message")
		return
	}

	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		respondInternal(c, h.environment, errors.New("response writer does not support flushing"), "Streaming not supported")
		return
	}

	for event := range events {
		metrics.StreamEventsTotal.WithLabelValues(string(event.Type)).Inc()
		h.writeEvent(c, flusher, event)
	}
}

// History handles POST /api/chat/history.
func (h *ChatHandler) History(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	conv, messages, err := h.service.History(c.Request.Context(), req.ConversationID, req.Limit)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			respondNotFound(c, "Conversation not found")
			return
		}
		respondInternal(c, h.environment, err, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data: dto.HistoryData{
			Conversation: conv,
			Messages:     messages,
			Total:        len(messages),
		},
	})
}

// Conversations handles GET /api/chat/conversations/:userId.
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID := c.Param("userId")

	conversations, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, h.environment, err, "Failed to retrieve conversations")
		return
	}

	total := len(conversations)
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    conversations,
		Total:   &total,
	})
}

func (h *ChatHandler) writeEvent(c *gin.Context, flusher http.Flusher, event chat.StreamEvent) {
	payload := dto.StreamPayload{
		Type:           string(event.Type),
		ConversationID: event.ConversationID,
		UserMessage:    event.UserMessage,
		Content:        event.Content,
		Message:        event.Message,
		Error:          event.Err,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}

	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	flusher.Flush()
}
