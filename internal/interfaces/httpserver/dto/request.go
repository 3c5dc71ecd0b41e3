package dto

// SendMessageRequest is the body of POST /api/chat/send and
// POST /api/chat/stream.
type SendMessageRequest struct {
	ConversationID string                 `json:"conversationId"`
	UserID         string                 `json:"userId" binding:"required"`
	Message        string                 `json:"message" binding:"required,max=5000"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// HistoryRequest is the body of POST /api/chat/history.
type HistoryRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Limit          int    `json:"limit" binding:"omitempty,min=1,max=100"`
}

// CreateTicketRequest is the body of POST /api/tickets/create.
type CreateTicketRequest struct {
	ConversationID string                 `json:"conversationId" binding:"required"`
	Subject        string                 `json:"subject" binding:"required,max=200"`
	Description    string                 `json:"description" binding:"required,max=5000"`
	Priority       string                 `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category       string                 `json:"category"`
	Metadata       map[string]interface{} `json:"metadata"`
	WebhookURL     string                 `json:"webhookUrl" binding:"omitempty,url"`
}
