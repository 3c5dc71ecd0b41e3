package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State is the widget's input state.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateError   State = "error"
)

var (
	// ErrEmptyMessage rejects a send with no content and no attachments.
	ErrEmptyMessage = errors.New("widget: message is empty")
	// ErrSendInProgress rejects a send while another one is running.
	ErrSendInProgress = errors.New("widget: send already in progress")
	// ErrNothingToRetry means no failed message is waiting to be resent.
	ErrNothingToRetry = errors.New("widget: nothing to retry")
)

// Session holds one user's widget-side conversation state. All methods
// are safe for concurrent use.
type Session struct {
	client *Client
	userID string

	mu             sync.Mutex
	conversationID string
	messages       []Message
	state          State
	lastErr        error
}

// NewSession creates an idle session for userID.
func NewSession(client *Client, userID string) *Session {
	return &Session{
		client: client,
		userID: userID,
		state:  StateIdle,
	}
}

// Send submits one user message, uploading attachments first. On
// success the server's user and assistant messages replace the local
// placeholder. On failure the placeholder stays with a failed status so
// Retry can resubmit it. A cancelled context removes the placeholder
// without entering the error state.
func (s *Session) Send(ctx context.Context, content string, attachments []Attachment, metadata map[string]interface{}) error {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return ErrEmptyMessage
	}

	local, err := s.begin(content, metadata)
	if err != nil {
		return err
	}

	req := SendRequest{
		ConversationID: s.currentConversationID(),
		UserID:         s.userID,
		Message:        content,
		Metadata:       metadata,
	}

	if len(attachments) > 0 {
		uploaded, err := s.uploadAll(ctx, local.ID, attachments)
		if err != nil {
			s.finishFailure(ctx, local.ID, err)
			return err
		}
		if req.Metadata == nil {
			req.Metadata = map[string]interface{}{}
		}
		req.Metadata["attachments"] = uploaded
	}

	resp, err := s.client.SendMessage(ctx, req)
	if err != nil {
		s.finishFailure(ctx, local.ID, err)
		return err
	}

	s.finishSuccess(local.ID, resp)
	return nil
}

// Retry removes the most recent failed user message and resubmits its
// content.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	var failed *Message
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == "user" && s.messages[i].Status == "failed" {
			failed = &s.messages[i]
			break
		}
	}
	if failed == nil {
		s.mu.Unlock()
		return ErrNothingToRetry
	}
	content := failed.Content
	metadata := failed.Metadata
	s.removeLocked(failed.ID)
	s.state = StateIdle
	s.lastErr = nil
	s.mu.Unlock()

	return s.Send(ctx, content, nil, metadata)
}

// LoadHistory replaces the local message list with the server's record
// of conversationID.
func (s *Session) LoadHistory(ctx context.Context, conversationID string, limit int) error {
	hist, err := s.client.History(ctx, conversationID, limit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.messages = append([]Message(nil), hist.Messages...)
	s.state = StateIdle
	s.lastErr = nil
	return nil
}

// Messages returns a snapshot of the message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// State returns the current input state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the bound conversation id, empty before the
// first successful send.
func (s *Session) ConversationID() string {
	return s.currentConversationID()
}

// LastError returns the error that put the session into StateError.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) begin(content string, metadata map[string]interface{}) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSending {
		return Message{}, ErrSendInProgress
	}
	local := Message{
		ID:             "local-" + uuid.NewString(),
		ConversationID: s.conversationID,
		Role:           "user",
		Content:        content,
		Status:         "sent",
		Metadata:       metadata,
	}
	s.messages = append(s.messages, local)
	s.state = StateSending
	s.lastErr = nil
	return local, nil
}

func (s *Session) uploadAll(ctx context.Context, messageID string, attachments []Attachment) ([]UploadedFile, error) {
	conversationID := s.currentConversationID()
	if conversationID == "" {
		conversationID = "pending"
	}
	uploaded := make([]UploadedFile, 0, len(attachments))
	for _, att := range attachments {
		file, err := s.client.UploadFile(ctx, conversationID, messageID, att)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, *file)
	}
	return uploaded, nil
}

func (s *Session) finishSuccess(localID string, resp *SendResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(localID)
	if resp.UserMessage != nil {
		s.messages = append(s.messages, *resp.UserMessage)
	}
	if resp.AssistantMessage != nil {
		s.messages = append(s.messages, *resp.AssistantMessage)
	}
	if s.conversationID == "" {
		s.conversationID = resp.ConversationID
	}
	s.state = StateIdle
}

func (s *Session) finishFailure(ctx context.Context, localID string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		// User abandoned the send, drop the placeholder quietly.
		s.removeLocked(localID)
		s.state = StateIdle
		return
	}
	for i := range s.messages {
		if s.messages[i].ID == localID {
			s.messages[i].Status = "failed"
			break
		}
	}
	s.state = StateError
	s.lastErr = cause
}

func (s *Session) currentConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *Session) removeLocked(id string) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}
