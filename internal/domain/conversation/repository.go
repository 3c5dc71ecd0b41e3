package conversation

import (
	"context"
	"errors"
)

// Sentinel errors returned by repositories. Lookup misses are reported
// as not-found values, never as panics.
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// Repository is the combined conversation and message store contract.
// The in-memory implementation lives in infrastructure/repository/memory;
// a durable backend can be swapped in behind the same interface.
type Repository interface {
	// CreateConversation creates a new active conversation for the user.
	CreateConversation(ctx context.Context, userID string, metadata map[string]interface{}) (*Conversation, error)

	// GetConversation returns the conversation or ErrConversationNotFound.
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// GetUserConversations returns the user's conversations sorted by
	// update time, newest first.
	GetUserConversations(ctx context.Context, userID string) ([]*Conversation, error)

	// UpdateStatus sets the conversation status.
	UpdateStatus(ctx context.Context, id string, status Status) (*Conversation, error)

	// BindSession records the upstream session id. The binding is
	// monotonic: once set it is never overwritten, and a second call
	// with a different id is a no-op.
	BindSession(ctx context.Context, id string, sessionID string) (*Conversation, error)

	// AddMessage appends a message to the conversation's log and touches
	// the conversation's update timestamp.
	AddMessage(ctx context.Context, draft MessageDraft) (*Message, error)

	// GetMessages returns up to limit messages from the tail of the log.
	// limit <= 0 returns the whole log.
	GetMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error)

	// UpdateMessageStatus transitions a message's delivery status.
	// Returns ErrMessageNotFound when the message is absent.
	UpdateMessageStatus(ctx context.Context, messageID, conversationID string, status MessageStatus) (*Message, error)
}
