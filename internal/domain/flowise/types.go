// Package flowise defines the contract consumed from the upstream
// Flowise prediction API.
package flowise

import (
	"context"
	"fmt"
	"strings"
)

// Upload is a file sent alongside a prediction question, encoded inline.
type Upload struct {
	Data string `json:"data"`
	Type string `json:"type"`
	Name string `json:"name"`
	Mime string `json:"mime"`
}

// PredictionRequest is the payload of POST /api/v1/prediction/{chatflowId}.
type PredictionRequest struct {
	Question  string   `json:"question"`
	SessionID string   `json:"sessionId,omitempty"`
	ChatID    string   `json:"chatId,omitempty"`
	Uploads   []Upload `json:"uploads,omitempty"`
}

// PredictionResponse is the upstream answer. Flowise returns a loosely
// shaped object; fields beyond these are preserved in Raw.
type PredictionResponse struct {
	Text       string                 `json:"text,omitempty"`
	Question   string                 `json:"question,omitempty"`
	ChatID     string                 `json:"chatId,omitempty"`
	SessionID  string                 `json:"sessionId,omitempty"`
	MemoryType string                 `json:"memoryType,omitempty"`
	Raw        map[string]interface{} `json:"-"`
}

// Chunk is one decoded fragment of a streamed prediction.
type Chunk struct {
	Content string
}

// Stream yields prediction text incrementally.
type Stream interface {
	// Recv returns the next chunk, or io.EOF when the stream ends.
	Recv() (*Chunk, error)
	Close() error
}

// Provider is the upstream client contract.
type Provider interface {
	// Predict sends a question and waits for the full answer.
	// Transient failures are retried internally.
	Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error)

	// PredictStream opens a single streaming prediction. Streams are
	// never retried; a mid-stream failure is terminal for the call.
	PredictStream(ctx context.Context, req PredictionRequest) (Stream, error)

	// ListChatflows fetches the chatflows visible to the configured key.
	ListChatflows(ctx context.Context) ([]map[string]interface{}, error)
}

// APIError is a non-success answer from the upstream service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("flowise api error: %d - %s", e.StatusCode, e.Body)
}

// transientMarkers are the failure patterns treated as retry-eligible.
var transientMarkers = []string{
	"timeout",
	"network",
	"502",
	"503",
	"504",
}

// IsTransient classifies an error as likely temporary. Only transient
// failures are retried by the client.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
