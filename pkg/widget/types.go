package widget

import "time"

// Message mirrors the wire shape of a chat message.
type Message struct {
	ID             string                 `json:"id"`
	ConversationID string                 `json:"conversationId"`
	Role           string                 `json:"role"`
	Content        string                 `json:"content"`
	CreatedAt      time.Time              `json:"createdAt"`
	Status         string                 `json:"status"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Attachment is a file the user selected before sending.
type Attachment struct {
	Filename string
	MIME     string
	Data     []byte
}

// UploadedFile is the backend's record of a processed attachment.
type UploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	URL      string `json:"url"`
}

// SendRequest is the body of a send call.
type SendRequest struct {
	ConversationID string                 `json:"conversationId,omitempty"`
	UserID         string                 `json:"userId"`
	Message        string                 `json:"message"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// SendResponse is the decoded payload of a successful send.
type SendResponse struct {
	ConversationID   string   `json:"conversationId"`
	UserMessage      *Message `json:"userMessage"`
	AssistantMessage *Message `json:"assistantMessage"`
	Warning          string   `json:"-"`
}

// HistoryResponse is the decoded payload of a history call.
type HistoryResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

type envelope struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

type sendEnvelope struct {
	envelope
	Data SendResponse `json:"data"`
}

type historyEnvelope struct {
	envelope
	Data HistoryResponse `json:"data"`
}

type uploadEnvelope struct {
	envelope
	Data UploadedFile `json:"data"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
