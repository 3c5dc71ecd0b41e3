// Package webhook delivers best-effort ticket event notifications.
package webhook

import (
	"context"
)

// EventTicketCreated is emitted after a support ticket is created.
const EventTicketCreated = "ticket.created"

// Notifier sends ticket lifecycle events to caller supplied URLs.
// Delivery is best effort: one attempt, failures are logged and
// swallowed, never surfaced to the ticket-creation caller.
type Notifier interface {
	NotifyTicketCreated(ctx context.Context, url string, ticket interface{}, conversation interface{}) error
}

// Payload is the structure POSTed to webhook URLs.
type Payload struct {
	Event        string      `json:"event"`
	Ticket       interface{} `json:"ticket"`
	Conversation interface{} `json:"conversation,omitempty"`
}
