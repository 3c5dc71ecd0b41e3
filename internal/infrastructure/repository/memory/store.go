// Package memory is the process-lifetime store backing conversations,
// message logs and support tickets. State does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/ticket"
)

// Store holds all chat state in ordinary maps guarded by a single
// mutex, so every operation is atomic with respect to the others.
type Store struct {
	mu sync.RWMutex

	conversations map[string]*conversation.Conversation
	messages      map[string][]*conversation.Message
	tickets       map[string]*ticket.SupportTicket
	userIndex     map[string][]string

	ticketCounter int

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*conversation.Conversation),
		messages:      make(map[string][]*conversation.Message),
		tickets:       make(map[string]*ticket.SupportTicket),
		userIndex:     make(map[string][]string),
		now:           time.Now,
	}
}

// CreateConversation creates a new active conversation for the user.
func (s *Store) CreateConversation(_ context.Context, userID string, metadata map[string]interface{}) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := &conversation.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    conversation.StatusActive,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.conversations[conv.ID] = conv
	s.userIndex[userID] = append(s.userIndex[userID], conv.ID)

	return cloneConversation(conv), nil
}

// GetConversation returns the conversation or ErrConversationNotFound.
func (s *Store) GetConversation(_ context.Context, id string) (*conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrConversationNotFound
	}
	return cloneConversation(conv), nil
}

// GetUserConversations returns the user's conversations sorted by
// update time, newest first.
func (s *Store) GetUserConversations(_ context.Context, userID string) ([]*conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.userIndex[userID]
	result := make([]*conversation.Conversation, 0, len(ids))
	for _, id := range ids {
		if conv, ok := s.conversations[id]; ok {
			result = append(result, cloneConversation(conv))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// UpdateStatus sets the conversation status.
func (s *Store) UpdateStatus(_ context.Context, id string, status conversation.Status) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrConversationNotFound
	}
	conv.Status = status
	conv.UpdatedAt = s.now()
	return cloneConversation(conv), nil
}

// BindSession records the upstream session id once. A binding already
// in place is never overwritten.
func (s *Store) BindSession(_ context.Context, id string, sessionID string) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrConversationNotFound
	}
	if conv.FlowiseSessionID == "" && sessionID != "" {
		conv.FlowiseSessionID = sessionID
		conv.UpdatedAt = s.now()
	}
	return cloneConversation(conv), nil
}

// AddMessage appends to the conversation's log, creating the log when
// absent. The owning conversation's update timestamp is touched when it
// exists; an unknown conversation id still gets a log so the message is
// not lost.
func (s *Store) AddMessage(_ context.Context, draft conversation.MessageDraft) (*conversation.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	msg := &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: draft.ConversationID,
		Role:           draft.Role,
		Content:        draft.Content,
		Status:         draft.Status,
		Attachments:    draft.Attachments,
		Metadata:       draft.Metadata,
		CreatedAt:      now,
	}

	s.messages[draft.ConversationID] = append(s.messages[draft.ConversationID], msg)

	if conv, ok := s.conversations[draft.ConversationID]; ok {
		conv.UpdatedAt = now
	}

	return cloneMessage(msg), nil
}

// GetMessages returns up to limit messages from the tail of the log.
func (s *Store) GetMessages(_ context.Context, conversationID string, limit int) ([]*conversation.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.messages[conversationID]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}

	result := make([]*conversation.Message, 0, len(log))
	for _, msg := range log {
		result = append(result, cloneMessage(msg))
	}
	return result, nil
}

// UpdateMessageStatus transitions a message's delivery status via a
// linear scan of the conversation's log.
func (s *Store) UpdateMessageStatus(_ context.Context, messageID, conversationID string, status conversation.MessageStatus) (*conversation.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages[conversationID] {
		if msg.ID == messageID {
			msg.Status = status
			return cloneMessage(msg), nil
		}
	}
	return nil, conversation.ErrMessageNotFound
}

// CreateTicket assigns the next sequential ticket number and forces the
// owning conversation to escalated.
func (s *Store) CreateTicket(_ context.Context, draft ticket.Draft) (*ticket.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.ticketCounter++

	t := &ticket.SupportTicket{
		ID:             uuid.NewString(),
		ConversationID: draft.ConversationID,
		TicketNumber:   fmt.Sprintf("TKT-%s-%04d", now.Format("20060102"), s.ticketCounter),
		Priority:       draft.Priority,
		Category:       draft.Category,
		Subject:        draft.Subject,
		Description:    draft.Description,
		Status:         ticket.StatusOpen,
		Metadata:       draft.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.tickets[t.ID] = t

	if conv, ok := s.conversations[draft.ConversationID]; ok {
		conv.Status = conversation.StatusEscalated
		conv.UpdatedAt = now
	}

	return cloneTicket(t), nil
}

// GetTicket returns the ticket or ErrTicketNotFound.
func (s *Store) GetTicket(_ context.Context, id string) (*ticket.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	return cloneTicket(t), nil
}

// GetTicketByNumber resolves a ticket by its human readable number.
func (s *Store) GetTicketByNumber(_ context.Context, number string) (*ticket.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.TicketNumber == number {
			return cloneTicket(t), nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

// GetConversationTickets returns a conversation's tickets, newest first.
func (s *Store) GetConversationTickets(_ context.Context, conversationID string) ([]*ticket.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ticket.SupportTicket, 0)
	for _, t := range s.tickets {
		if t.ConversationID == conversationID {
			result = append(result, cloneTicket(t))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateTicket applies a partial update. Transitioning into a terminal
// status stamps ResolvedAt.
func (s *Store) UpdateTicket(_ context.Context, id string, update ticket.Update) (*ticket.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}

	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Category != nil {
		t.Category = *update.Category
	}
	if update.AssignedTo != nil {
		t.AssignedTo = *update.AssignedTo
	}
	if update.Status != nil {
		t.Status = *update.Status
		if update.Status.IsTerminal() {
			resolvedAt := s.now()
			t.ResolvedAt = &resolvedAt
		}
	}
	t.UpdatedAt = s.now()

	return cloneTicket(t), nil
}

// Reset drops all state. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*conversation.Conversation)
	s.messages = make(map[string][]*conversation.Message)
	s.tickets = make(map[string]*ticket.SupportTicket)
	s.userIndex = make(map[string][]string)
	s.ticketCounter = 0
}

// Interface compliance.
var (
	_ conversation.Repository = (*Store)(nil)
	_ ticket.Repository       = (*Store)(nil)
)

func cloneConversation(conv *conversation.Conversation) *conversation.Conversation {
	clone := *conv
	return &clone
}

func cloneMessage(msg *conversation.Message) *conversation.Message {
	clone := *msg
	return &clone
}

func cloneTicket(t *ticket.SupportTicket) *ticket.SupportTicket {
	clone := *t
	return &clone
}
