package ticket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/sanitize"
	"chat-api/internal/webhook"
)

// CreateParams carries one ticket creation request.
type CreateParams struct {
	ConversationID string
	Subject        string
	Description    string
	Priority       Priority
	Category       string
	Metadata       map[string]interface{}
	WebhookURL     string
}

// Service validates and creates support tickets and fires the
// best-effort ticket.created webhook.
type Service struct {
	tickets       Repository
	conversations conversation.Repository
	notifier      webhook.Notifier
	log           zerolog.Logger

	deliveries sync.WaitGroup
}

// NewService constructs the ticket service.
func NewService(tickets Repository, conversations conversation.Repository, notifier webhook.Notifier, log zerolog.Logger) *Service {
	return &Service{
		tickets:       tickets,
		conversations: conversations,
		notifier:      notifier,
		log:           log.With().Str("component", "ticket-service").Logger(),
	}
}

// Create escalates a conversation into a support ticket. The owning
// conversation must exist; its status becomes escalated regardless of
// its prior state. When a webhook URL is supplied the notification is
// dispatched in the background and its failure never reaches the caller.
func (s *Service) Create(ctx context.Context, params CreateParams) (*SupportTicket, error) {
	conv, err := s.conversations.GetConversation(ctx, params.ConversationID)
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t, err := s.tickets.CreateTicket(ctx, Draft{
		ConversationID: params.ConversationID,
		Priority:       priority,
		Category:       params.Category,
		Subject:        sanitize.Input(params.Subject),
		Description:    sanitize.Input(params.Description),
		Metadata:       sanitize.Metadata(params.Metadata),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ticket_id", t.ID).
		Str("ticket_number", t.TicketNumber).
		Str("conversation_id", t.ConversationID).
		Msg("support ticket created")

	if params.WebhookURL != "" {
		// Refresh so the payload reflects the escalation.
		if refreshed, err := s.conversations.GetConversation(ctx, params.ConversationID); err == nil {
			conv = refreshed
		}
		s.dispatchWebhook(params.WebhookURL, t, conv)
	}

	return t, nil
}

// Get returns the ticket or ErrTicketNotFound.
func (s *Service) Get(ctx context.Context, id string) (*SupportTicket, error) {
	return s.tickets.GetTicket(ctx, id)
}

// Shutdown waits for in-flight webhook deliveries.
func (s *Service) Shutdown() {
	s.deliveries.Wait()
}

func (s *Service) dispatchWebhook(url string, t *SupportTicket, conv *conversation.Conversation) {
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		// Failure is logged by the notifier and swallowed here.
		_ = s.notifier.NotifyTicketCreated(ctx, url, t, conv)
	}()
}
