package dto

import (
	"chat-api/internal/domain/conversation"
)

// Envelope is the uniform success wrapper.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   *int        `json:"total,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// ErrorPayload is the uniform error wrapper. Details itemizes
// per-field validation failures.
type ErrorPayload struct {
	Error   string        `json:"error"`
	Details []FieldError  `json:"details,omitempty"`
	Message string        `json:"message,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SendData is the payload of a non-streaming send.
type SendData struct {
	ConversationID   string                `json:"conversationId"`
	UserMessage      *conversation.Message `json:"userMessage"`
	AssistantMessage *conversation.Message `json:"assistantMessage"`
}

// HistoryData is the payload of a history read.
type HistoryData struct {
	Conversation *conversation.Conversation `json:"conversation"`
	Messages     []*conversation.Message    `json:"messages"`
	Total        int                        `json:"total"`
}

// StreamPayload is one SSE data frame on /api/chat/stream.
type StreamPayload struct {
	Type           string                `json:"type"`
	ConversationID string                `json:"conversationId,omitempty"`
	UserMessage    *conversation.Message `json:"userMessage,omitempty"`
	Content        string                `json:"content,omitempty"`
	Message        *conversation.Message `json:"message,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// HealthData is the payload of GET /api/health.
type HealthData struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Flowise   FlowiseHealth `json:"flowise"`
}

// FlowiseHealth reports upstream configuration state.
type FlowiseHealth struct {
	Configured bool `json:"configured"`
}
