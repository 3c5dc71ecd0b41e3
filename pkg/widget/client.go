// Package widget is a Go client for the chat backend, modeled after the
// embeddable web widget. It keeps widget-side message state and talks to
// the REST API.
package widget

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api: status %d: %s", e.StatusCode, e.Message)
}

// Client is a thin HTTP client over the chat API.
type Client struct {
	rest *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(90 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SendMessage posts one user message and returns the stored user and
// assistant messages.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) (*SendResponse, error) {
	var out sendEnvelope
	var apiErr errorEnvelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chat/send")
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	out.Data.Warning = out.Warning
	return &out.Data, nil
}

// History fetches up to limit recent messages of a conversation.
func (c *Client) History(ctx context.Context, conversationID string, limit int) (*HistoryResponse, error) {
	body := map[string]interface{}{"conversationId": conversationID}
	if limit > 0 {
		body["limit"] = limit
	}
	var out historyEnvelope
	var apiErr errorEnvelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chat/history")
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return &out.Data, nil
}

// UploadFile sends one attachment and returns its inline-encoded record.
func (c *Client) UploadFile(ctx context.Context, conversationID, messageID string, att Attachment) (*UploadedFile, error) {
	var out uploadEnvelope
	var apiErr errorEnvelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetMultipartField("file", att.Filename, att.MIME, bytes.NewReader(att.Data)).
		SetFormData(map[string]string{
			"conversationId": conversationID,
			"messageId":      messageID,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chat/upload")
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return &out.Data, nil
}
