package ticket

import (
	"context"
	"errors"
)

// ErrTicketNotFound is returned on ticket lookup misses.
var ErrTicketNotFound = errors.New("ticket not found")

// Repository is the ticket store contract.
type Repository interface {
	// CreateTicket assigns a sequential ticket number and forces the
	// owning conversation to escalated.
	CreateTicket(ctx context.Context, draft Draft) (*SupportTicket, error)

	// GetTicket returns the ticket or ErrTicketNotFound.
	GetTicket(ctx context.Context, id string) (*SupportTicket, error)

	// GetTicketByNumber resolves a ticket by its human readable number.
	GetTicketByNumber(ctx context.Context, number string) (*SupportTicket, error)

	// GetConversationTickets returns a conversation's tickets, newest first.
	GetConversationTickets(ctx context.Context, conversationID string) ([]*SupportTicket, error)

	// UpdateTicket applies a partial update. Transitioning into a
	// terminal status stamps ResolvedAt.
	UpdateTicket(ctx context.Context, id string, update Update) (*SupportTicket, error)
}
