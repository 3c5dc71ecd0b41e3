// Package flowiseclient is the Resty-backed implementation of the
// flowise.Provider contract.
package flowiseclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/flowise"
	"chat-api/internal/domain/retry"
	"chat-api/internal/infrastructure/metrics"
)

// Config carries the upstream connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatflowID string
	Timeout    time.Duration
	RetryDelay time.Duration
}

// Client talks to the Flowise prediction API. Predict and ListChatflows
// retry transient failures; PredictStream never retries.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	apiKey     string
	chatflowID string
	policy     retry.Policy
	streamHTTP *http.Client
	log        zerolog.Logger
}

// NewClient creates the upstream client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	policy := retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   cfg.RetryDelay,
		Retryable:   flowise.IsTransient,
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		chatflowID: cfg.ChatflowID,
		policy:     policy,
		streamHTTP: &http.Client{Timeout: 2 * cfg.Timeout},
		log:        log.With().Str("component", "flowise-client").Logger(),
	}
}

// Predict sends a question and waits for the full answer.
func (c *Client) Predict(ctx context.Context, req flowise.PredictionRequest) (*flowise.PredictionResponse, error) {
	return retry.ExecuteWithResult(ctx, c.policy, func(ctx context.Context, attempt int) (*flowise.PredictionResponse, error) {
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.Inc()
			c.log.Warn().Int("attempt", attempt).Msg("retrying prediction")
		}

		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(req).
			Post(c.predictionPath())
		if err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues("predict", "error").Inc()
			return nil, fmt.Errorf("flowise request: %w", err)
		}
		if resp.IsError() {
			metrics.UpstreamRequestsTotal.WithLabelValues("predict", "error").Inc()
			return nil, &flowise.APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}

		prediction, err := decodePrediction(resp.Body())
		if err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues("predict", "error").Inc()
			return nil, err
		}
		metrics.UpstreamRequestsTotal.WithLabelValues("predict", "success").Inc()
		return prediction, nil
	})
}

// PredictStream opens one streaming prediction request and decodes the
// response body incrementally. A mid-stream failure is terminal.
func (c *Client) PredictStream(ctx context.Context, req flowise.PredictionRequest) (flowise.Stream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.predictionPath(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.streamHTTP.Do(httpReq)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("stream", "error").Inc()
		return nil, fmt.Errorf("flowise request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.UpstreamRequestsTotal.WithLabelValues("stream", "error").Inc()
		return nil, &flowise.APIError{StatusCode: resp.StatusCode, Body: string(payload)}
	}
	if resp.Body == nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("stream", "error").Inc()
		return nil, fmt.Errorf("flowise response body is empty")
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("stream", "success").Inc()
	return &textStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
	}, nil
}

// ListChatflows fetches the chatflows visible to the configured key.
func (c *Client) ListChatflows(ctx context.Context) ([]map[string]interface{}, error) {
	return retry.ExecuteWithResult(ctx, c.policy, func(ctx context.Context, attempt int) ([]map[string]interface{}, error) {
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.Inc()
		}

		var chatflows []map[string]interface{}
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetResult(&chatflows).
			Get("/api/v1/chatflows")
		if err != nil {
			return nil, fmt.Errorf("flowise request: %w", err)
		}
		if resp.IsError() {
			return nil, &flowise.APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}
		return chatflows, nil
	})
}

// Ensure interface compliance.
var _ flowise.Provider = (*Client)(nil)

func (c *Client) predictionPath() string {
	return "/api/v1/prediction/" + c.chatflowID
}

func decodePrediction(body []byte) (*flowise.PredictionResponse, error) {
	var prediction flowise.PredictionResponse
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	// Keep the loosely shaped remainder for message metadata.
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err == nil {
		prediction.Raw = raw
	}
	return &prediction, nil
}

// textStream decodes a chunked prediction body as raw text fragments.
type textStream struct {
	resp   *http.Response
	reader *bufio.Reader
}

func (s *textStream) Recv() (*flowise.Chunk, error) {
	buf := make([]byte, 4096)
	n, err := s.reader.Read(buf)
	if n > 0 {
		// Deliver what arrived; a pending error surfaces on the next call.
		return &flowise.Chunk{Content: string(buf[:n])}, nil
	}
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return nil, io.EOF
}

func (s *textStream) Close() error {
	if s.resp != nil && s.resp.Body != nil {
		return s.resp.Body.Close()
	}
	return nil
}
