package ticket

import (
	"time"
)

// Priority of a support ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether the priority is one of the closed set.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status of a support ticket.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// IsValid reports whether the status is one of the closed set.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the status stamps a resolution time.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// SupportTicket is a human-actionable escalation derived from a conversation.
type SupportTicket struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	// TicketNumber is date-prefixed and strictly increasing within a
	// process lifetime, e.g. TKT-20260829-0001.
	TicketNumber string                 `json:"ticketNumber"`
	Priority     Priority               `json:"priority"`
	Category     string                 `json:"category,omitempty"`
	Subject      string                 `json:"subject"`
	Description  string                 `json:"description"`
	Status       Status                 `json:"status"`
	AssignedTo   string                 `json:"assignedTo,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	ResolvedAt   *time.Time             `json:"resolvedAt,omitempty"`
}

// Draft carries the caller supplied fields of a new ticket. The repository
// assigns id, ticket number and timestamps.
type Draft struct {
	ConversationID string
	Priority       Priority
	Category       string
	Subject        string
	Description    string
	Metadata       map[string]interface{}
}

// Update describes a partial ticket update. Nil fields are left unchanged.
type Update struct {
	Priority   *Priority
	Status     *Status
	AssignedTo *string
	Category   *string
}
