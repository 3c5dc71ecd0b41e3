// Package chat implements the message send pipeline: conversation
// resolution, message persistence, upstream prediction and session
// correlation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/flowise"
	"chat-api/internal/sanitize"
)

const (
	emptyAnswerFallback = "I apologize, but I could not generate a response."
	failureAnswer       = "I apologize, but I encountered an error processing your message. Please try again."

	// WarningUpstreamFailed marks a send whose bot answer could not be
	// produced. The request itself still succeeds.
	WarningUpstreamFailed = "Bot response failed, showing error message"
)

// SendParams carries one inbound chat request.
type SendParams struct {
	ConversationID string
	UserID         string
	Message        string
	Metadata       map[string]interface{}
}

// SendResult is the outcome of a non-streaming send. Warning is set
// when the upstream call failed and a synthetic assistant answer was
// recorded instead.
type SendResult struct {
	Conversation     *conversation.Conversation
	UserMessage      *conversation.Message
	AssistantMessage *conversation.Message
	Warning          string
}

// Service runs the chat pipeline against the store and the upstream
// provider. Sends to the same conversation are serialized.
type Service struct {
	repo           conversation.Repository
	provider       flowise.Provider
	deliveredDelay time.Duration
	log            zerolog.Logger

	locks sync.Map // conversation id -> *sync.Mutex

	timers   sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}
}

// NewService constructs the pipeline. deliveredDelay is the pause
// before an accepted user message transitions from sent to delivered.
func NewService(repo conversation.Repository, provider flowise.Provider, deliveredDelay time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		provider:       provider,
		deliveredDelay: deliveredDelay,
		log:            log.With().Str("component", "chat-service").Logger(),
		stop:           make(chan struct{}),
	}
}

// Send resolves the conversation, persists the user message, asks the
// upstream service for an answer and persists it. Upstream failures are
// absorbed into conversation state: the user message is marked failed,
// a synthetic assistant explanation is recorded and the result carries
// a warning. Store failures are returned as hard errors.
func (s *Service) Send(ctx context.Context, params SendParams) (*SendResult, error) {
	content := sanitize.Input(params.Message)
	metadata := sanitize.Metadata(params.Metadata)

	conv, err := s.resolveConversation(ctx, params.ConversationID, params.UserID, metadata)
	if err != nil {
		return nil, err
	}

	unlock := s.lockConversation(conv.ID)
	defer unlock()

	userMsg, err := s.repo.AddMessage(ctx, conversation.MessageDraft{
		ConversationID: conv.ID,
		Role:           conversation.RoleUser,
		Content:        content,
		Status:         conversation.MessageStatusSent,
		Metadata:       metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	s.scheduleDelivered(userMsg.ID, conv.ID)

	resp, err := s.provider.Predict(ctx, flowise.PredictionRequest{
		Question:  content,
		SessionID: sessionKey(conv),
		ChatID:    conv.ID,
	})
	if err != nil {
		return s.recordFailure(ctx, conv, userMsg, err)
	}

	conv = s.bindSession(ctx, conv, resp.SessionID)

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = emptyAnswerFallback
	}

	assistantMsg, err := s.repo.AddMessage(ctx, conversation.MessageDraft{
		ConversationID: conv.ID,
		Role:           conversation.RoleAssistant,
		Content:        text,
		Status:         conversation.MessageStatusDelivered,
		Metadata: map[string]interface{}{
			"flowiseResponse": resp,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	return &SendResult{
		Conversation:     conv,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// Stream runs the streaming variant of the pipeline. The returned
// channel begins with a start event and ends with exactly one terminal
// event. Unlike Send, an upstream failure records no assistant message.
func (s *Service) Stream(ctx context.Context, params SendParams) (<-chan StreamEvent, error) {
	content := sanitize.Input(params.Message)
	metadata := sanitize.Metadata(params.Metadata)

	conv, err := s.resolveConversation(ctx, params.ConversationID, params.UserID, metadata)
	if err != nil {
		return nil, err
	}

	unlock := s.lockConversation(conv.ID)
	userMsg, err := s.repo.AddMessage(ctx, conversation.MessageDraft{
		ConversationID: conv.ID,
		Role:           conversation.RoleUser,
		Content:        content,
		Status:         conversation.MessageStatusDelivered,
		Metadata:       metadata,
	})
	unlock()
	if err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	events := make(chan StreamEvent)

	go s.relay(ctx, conv, userMsg, content, events)

	return events, nil
}

// History returns the conversation and the tail of its message log.
func (s *Service) History(ctx context.Context, conversationID string, limit int) (*conversation.Conversation, []*conversation.Message, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.repo.GetMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, nil, err
	}
	return conv, messages, nil
}

// ListConversations returns the user's conversations, newest first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	return s.repo.GetUserConversations(ctx, userID)
}

// Shutdown cancels pending delivered-transition timers and waits for
// them to finish.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.timers.Wait()
}

func (s *Service) relay(ctx context.Context, conv *conversation.Conversation, userMsg *conversation.Message, question string, events chan<- StreamEvent) {
	defer close(events)

	events <- StreamEvent{
		Type:           EventStart,
		ConversationID: conv.ID,
		UserMessage:    userMsg,
	}

	stream, err := s.provider.PredictStream(ctx, flowise.PredictionRequest{
		Question:  question,
		SessionID: sessionKey(conv),
		ChatID:    conv.ID,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("open prediction stream")
		events <- StreamEvent{Type: EventError, Err: err.Error()}
		return
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("prediction stream failed")
			events <- StreamEvent{Type: EventError, Err: err.Error()}
			return
		}
		full.WriteString(chunk.Content)
		events <- StreamEvent{Type: EventChunk, Content: chunk.Content}
	}

	unlock := s.lockConversation(conv.ID)
	assistantMsg, err := s.repo.AddMessage(ctx, conversation.MessageDraft{
		ConversationID: conv.ID,
		Role:           conversation.RoleAssistant,
		Content:        full.String(),
		Status:         conversation.MessageStatusDelivered,
	})
	unlock()
	if err != nil {
		events <- StreamEvent{Type: EventError, Err: err.Error()}
		return
	}

	events <- StreamEvent{Type: EventComplete, Message: assistantMsg}
}

func (s *Service) resolveConversation(ctx context.Context, conversationID, userID string, metadata map[string]interface{}) (*conversation.Conversation, error) {
	if conversationID != "" {
		conv, err := s.repo.GetConversation(ctx, conversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, err
		}
	}
	return s.repo.CreateConversation(ctx, userID, metadata)
}

// bindSession records the upstream session id on first contact. A
// different id returned later never replaces an existing binding.
func (s *Service) bindSession(ctx context.Context, conv *conversation.Conversation, sessionID string) *conversation.Conversation {
	if sessionID == "" || conv.FlowiseSessionID != "" {
		return conv
	}
	bound, err := s.repo.BindSession(ctx, conv.ID, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("bind upstream session")
		return conv
	}
	return bound
}

// scheduleDelivered marks the user message delivered after a fixed
// delay, modelling acceptance by transport independent of the answer.
// The timer is owned by the service and cancelled on Shutdown.
func (s *Service) scheduleDelivered(messageID, conversationID string) {
	s.timers.Add(1)
	go func() {
		defer s.timers.Done()

		timer := time.NewTimer(s.deliveredDelay)
		defer timer.Stop()

		select {
		case <-s.stop:
			return
		case <-timer.C:
		}

		if _, err := s.repo.UpdateMessageStatus(context.Background(), messageID, conversationID, conversation.MessageStatusDelivered); err != nil {
			s.log.Debug().Err(err).Str("message_id", messageID).Msg("delivered transition skipped")
		}
	}()
}

func (s *Service) recordFailure(ctx context.Context, conv *conversation.Conversation, userMsg *conversation.Message, cause error) (*SendResult, error) {
	s.log.Warn().Err(cause).Str("conversation_id", conv.ID).Msg("upstream prediction failed")

	if _, err := s.repo.UpdateMessageStatus(ctx, userMsg.ID, conv.ID, conversation.MessageStatusFailed); err != nil {
		s.log.Debug().Err(err).Str("message_id", userMsg.ID).Msg("mark user message failed")
	}
	failed := *userMsg
	failed.Status = conversation.MessageStatusFailed

	assistantMsg, err := s.repo.AddMessage(ctx, conversation.MessageDraft{
		ConversationID: conv.ID,
		Role:           conversation.RoleAssistant,
		Content:        failureAnswer,
		Status:         conversation.MessageStatusDelivered,
		Metadata: map[string]interface{}{
			"error": cause.Error(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("persist failure message: %w", err)
	}

	return &SendResult{
		Conversation:     conv,
		UserMessage:      &failed,
		AssistantMessage: assistantMsg,
		Warning:          WarningUpstreamFailed,
	}, nil
}

func (s *Service) lockConversation(id string) func() {
	value, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// sessionKey is the upstream session identifier: the bound session id,
// falling back to the local conversation id on first contact.
func sessionKey(conv *conversation.Conversation) string {
	if conv.FlowiseSessionID != "" {
		return conv.FlowiseSessionID
	}
	return conv.ID
}
