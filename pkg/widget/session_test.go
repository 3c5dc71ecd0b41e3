package widget_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-api/pkg/widget"
)

// stubBackend emulates the chat API's JSON envelopes.
type stubBackend struct {
	sendStatus int32
	sendCalls  int32
}

func (b *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/send", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.sendCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		if status := atomic.LoadInt32(&b.sendStatus); status != 0 {
			w.WriteHeader(int(status))
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to process message"})
			return
		}

		var req widget.SendRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"conversationId": "conv-1",
				"userMessage": map[string]interface{}{
					"id": "msg-user", "conversationId": "conv-1", "role": "user",
					"content": req.Message, "status": "sent", "createdAt": time.Now(),
				},
				"assistantMessage": map[string]interface{}{
					"id": "msg-bot", "conversationId": "conv-1", "role": "assistant",
					"content": "echo: " + req.Message, "status": "delivered", "createdAt": time.Now(),
				},
			},
		})
	})
	mux.HandleFunc("/api/chat/history", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"messages": []map[string]interface{}{
					{"id": "m1", "role": "user", "content": "earlier", "status": "delivered", "createdAt": time.Now()},
					{"id": "m2", "role": "assistant", "content": "earlier answer", "status": "delivered", "createdAt": time.Now()},
				},
				"total": 2,
			},
		})
	})
	mux.HandleFunc("/api/chat/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id": "file-1", "filename": "notes.txt", "fileType": "text/plain",
				"fileSize": 5, "url": "data:text/plain;base64,aGVsbG8=",
			},
		})
	})
	return mux
}

func newSession(t *testing.T, backend *stubBackend) *widget.Session {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return widget.NewSession(widget.NewClient(server.URL), "user-1")
}

func TestSession_SendAppliesServerMessages(t *testing.T) {
	session := newSession(t, &stubBackend{})

	err := session.Send(context.Background(), "hello", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, widget.StateIdle, session.State())
	assert.Equal(t, "conv-1", session.ConversationID())

	msgs := session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "msg-user", msgs[0].ID)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "msg-bot", msgs[1].ID)
	assert.Equal(t, "echo: hello", msgs[1].Content)
}

func TestSession_RejectsEmptyMessage(t *testing.T) {
	session := newSession(t, &stubBackend{})

	err := session.Send(context.Background(), "   ", nil, nil)
	assert.ErrorIs(t, err, widget.ErrEmptyMessage)
	assert.Empty(t, session.Messages())
}

func TestSession_FailureKeepsFailedPlaceholder(t *testing.T) {
	backend := &stubBackend{sendStatus: http.StatusInternalServerError}
	session := newSession(t, backend)

	err := session.Send(context.Background(), "hello", nil, nil)
	require.Error(t, err)

	assert.Equal(t, widget.StateError, session.State())
	assert.Error(t, session.LastError())

	msgs := session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "failed", msgs[0].Status)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestSession_RetryResendsFailedMessage(t *testing.T) {
	backend := &stubBackend{sendStatus: http.StatusInternalServerError}
	session := newSession(t, backend)

	require.Error(t, session.Send(context.Background(), "hello", nil, nil))

	// Backend recovers.
	atomic.StoreInt32(&backend.sendStatus, 0)

	require.NoError(t, session.Retry(context.Background()))
	assert.Equal(t, widget.StateIdle, session.State())

	msgs := session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	// The failed placeholder is gone, the server copy took its place.
	assert.Equal(t, "sent", msgs[0].Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.sendCalls))
}

func TestSession_RetryWithoutFailureFails(t *testing.T) {
	session := newSession(t, &stubBackend{})

	err := session.Retry(context.Background())
	assert.ErrorIs(t, err, widget.ErrNothingToRetry)
}

func TestSession_CancelledContextSuppressesErrorState(t *testing.T) {
	session := newSession(t, &stubBackend{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.Send(ctx, "hello", nil, nil)
	require.Error(t, err)

	assert.Equal(t, widget.StateIdle, session.State())
	assert.NoError(t, session.LastError())
	assert.Empty(t, session.Messages())
}

func TestSession_LoadHistory(t *testing.T) {
	session := newSession(t, &stubBackend{})

	require.NoError(t, session.LoadHistory(context.Background(), "conv-9", 50))

	assert.Equal(t, "conv-9", session.ConversationID())
	msgs := session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "earlier", msgs[0].Content)
	assert.Equal(t, widget.StateIdle, session.State())
}

func TestSession_SendWithAttachmentUploadsFirst(t *testing.T) {
	session := newSession(t, &stubBackend{})

	att := widget.Attachment{Filename: "notes.txt", MIME: "text/plain", Data: []byte("hello")}
	err := session.Send(context.Background(), "see attached", []widget.Attachment{att}, nil)
	require.NoError(t, err)

	msgs := session.Messages()
	require.Len(t, msgs, 2)
}
