package conversation

import (
	"time"
)

// Status tracks the lifecycle of a conversation.
type Status string

const (
	StatusActive    Status = "active"
	StatusResolved  Status = "resolved"
	StatusEscalated Status = "escalated"
)

// IsValid reports whether the status is one of the closed set.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusResolved, StatusEscalated:
		return true
	}
	return false
}

// Role indicates who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether the role is one of the closed set.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// MessageStatus tracks delivery of a single message.
// Allowed transitions are sent -> delivered and sent -> failed.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
)

// IsValid reports whether the message status is one of the closed set.
func (s MessageStatus) IsValid() bool {
	switch s {
	case MessageStatusSent, MessageStatusDelivered, MessageStatusFailed:
		return true
	}
	return false
}

// Conversation is a thread of messages between one user and the assistant.
type Conversation struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	// FlowiseSessionID correlates multi-turn context on the upstream side.
	// It is bound once, on the first successful exchange, and never overwritten.
	FlowiseSessionID string                 `json:"flowiseSessionId,omitempty"`
	Status           Status                 `json:"status"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// Message is a single entry in a conversation's append-only log.
// Content is immutable after creation; only the status may change.
type Message struct {
	ID             string                 `json:"id"`
	ConversationID string                 `json:"conversationId"`
	Role           Role                   `json:"role"`
	Content        string                 `json:"content"`
	Status         MessageStatus          `json:"status"`
	Attachments    []FileAttachment       `json:"attachments,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// FileAttachment describes an upload encoded inline as a data URL.
// Attachments are never persisted server side; they travel inside
// message metadata owned by the caller.
type FileAttachment struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// MessageDraft carries the caller supplied fields of a new message.
// The repository assigns id and creation time.
type MessageDraft struct {
	ConversationID string
	Role           Role
	Content        string
	Status         MessageStatus
	Attachments    []FileAttachment
	Metadata       map[string]interface{}
}
