package chat

import (
	"chat-api/internal/domain/conversation"
)

// StreamEventType tags events on a streaming send.
type StreamEventType string

const (
	EventStart    StreamEventType = "start"
	EventChunk    StreamEventType = "chunk"
	EventComplete StreamEventType = "complete"
	EventError    StreamEventType = "error"
)

// StreamEvent is one event on the relay channel. A stream begins with
// exactly one start event, carries any number of chunk events, and ends
// with exactly one terminal event (complete or error) before the
// channel closes.
type StreamEvent struct {
	Type StreamEventType

	// Start
	ConversationID string
	UserMessage    *conversation.Message

	// Chunk
	Content string

	// Complete
	Message *conversation.Message

	// Error
	Err string
}
