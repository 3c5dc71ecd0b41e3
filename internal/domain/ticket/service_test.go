package ticket_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/infrastructure/repository/memory"
)

// MockNotifier records webhook dispatches.
type MockNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

type notifyCall struct {
	url          string
	ticket       interface{}
	conversation interface{}
}

func (m *MockNotifier) NotifyTicketCreated(ctx context.Context, url string, t interface{}, conv interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, notifyCall{url: url, ticket: t, conversation: conv})
	return m.err
}

func (m *MockNotifier) Calls() []notifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifyCall(nil), m.calls...)
}

func newTicketService(t *testing.T) (*ticket.Service, *memory.Store, *MockNotifier) {
	t.Helper()
	store := memory.NewStore()
	notifier := &MockNotifier{}
	svc := ticket.NewService(store, store, notifier, zerolog.Nop())
	return svc, store, notifier
}

func TestCreate_EscalatesConversation(t *testing.T) {
	svc, store, _ := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	created, err := svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "Cannot log in",
		Description:    "Password reset loop",
		Priority:       ticket.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, ticket.PriorityHigh, created.Priority)
	assert.Equal(t, ticket.StatusOpen, created.Status)
	assert.NotEmpty(t, created.TicketNumber)

	got, err := store.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.StatusEscalated, got.Status)
}

func TestCreate_UnknownConversationFails(t *testing.T) {
	svc, _, _ := newTicketService(t)

	_, err := svc.Create(context.Background(), ticket.CreateParams{
		ConversationID: "missing",
		Subject:        "subject",
		Description:    "description",
	})
	assert.ErrorIs(t, err, conversation.ErrConversationNotFound)
}

func TestCreate_DefaultsPriorityToMedium(t *testing.T) {
	svc, store, _ := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	created, err := svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "subject",
		Description:    "description",
	})
	require.NoError(t, err)
	assert.Equal(t, ticket.PriorityMedium, created.Priority)
}

func TestCreate_SanitizesSubjectAndDescription(t *testing.T) {
	svc, store, _ := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	created, err := svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "  <b>broken</b>  ",
		Description:    "it <i>really</i> is",
	})
	require.NoError(t, err)
	assert.Equal(t, "bbroken/b", created.Subject)
	assert.Equal(t, "it ireally/i is", created.Description)
}

func TestCreate_DispatchesWebhookWithEscalatedConversation(t *testing.T) {
	svc, store, notifier := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	created, err := svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "subject",
		Description:    "description",
		WebhookURL:     "https://example.com/hooks/tickets",
	})
	require.NoError(t, err)
	svc.Shutdown()

	calls := notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "https://example.com/hooks/tickets", calls[0].url)

	sent, ok := calls[0].ticket.(*ticket.SupportTicket)
	require.True(t, ok)
	assert.Equal(t, created.ID, sent.ID)

	sentConv, ok := calls[0].conversation.(*conversation.Conversation)
	require.True(t, ok)
	assert.Equal(t, conversation.StatusEscalated, sentConv.Status)
}

func TestCreate_NoWebhookURLSkipsDispatch(t *testing.T) {
	svc, store, notifier := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "subject",
		Description:    "description",
	})
	require.NoError(t, err)
	svc.Shutdown()

	assert.Empty(t, notifier.Calls())
}

func TestGet(t *testing.T) {
	svc, store, _ := newTicketService(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)
	created, err := svc.Create(ctx, ticket.CreateParams{
		ConversationID: conv.ID,
		Subject:        "subject",
		Description:    "description",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TicketNumber, got.TicketNumber)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}
