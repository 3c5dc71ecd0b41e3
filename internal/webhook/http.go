package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/infrastructure/metrics"
)

// HTTPNotifier implements webhook delivery via HTTP POST.
type HTTPNotifier struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPNotifier creates a new HTTP-based notifier.
func NewHTTPNotifier(log zerolog.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("component", "webhook").Logger(),
	}
}

// NotifyTicketCreated POSTs a ticket.created event to the URL. A single
// attempt is made; there is no retry.
func (n *HTTPNotifier) NotifyTicketCreated(ctx context.Context, url string, ticket interface{}, conversation interface{}) error {
	payload := Payload{
		Event:        EventTicketCreated,
		Ticket:       ticket,
		Conversation: conversation,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "chat-api/1.0")
	req.Header.Set("X-Chat-Event", EventTicketCreated)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		n.log.Warn().Err(err).Str("url", url).Msg("webhook delivery failed")
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		n.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("webhook returned non-success status")
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("success").Inc()
	n.log.Info().Str("url", url).Int("status", resp.StatusCode).Msg("webhook delivered")
	return nil
}

// Ensure interface compliance.
var _ Notifier = (*HTTPNotifier)(nil)
