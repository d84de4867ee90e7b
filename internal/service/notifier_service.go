package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// notifyRetryIntervals spaces out redelivery attempts to observers.
var notifyRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NotificationPayload is the JSON structure posted to observer URLs.
type NotificationPayload struct {
	EventID    string           `json:"event_id"`
	EventType  domain.EventType `json:"event_type"`
	Attributes json.RawMessage  `json:"attributes"`
	CreatedAt  int64            `json:"created_at"`
	Signature  string           `json:"signature"`
}

// WebhookNotifier implements ports.Notifier. Every committed event is
// POSTed to each configured observer URL, signed with the shared key so
// observers can authenticate the source. Delivery is asynchronous and
// best effort; the durable record is the postgres event log.
type WebhookNotifier struct {
	observerURLs []string
	signingKey   string
	sigSvc       ports.SignatureService
	httpClient   HTTPClient
	log          zerolog.Logger
}

// NewWebhookNotifier creates a new webhook notifier.
func NewWebhookNotifier(
	observerURLs []string,
	signingKey string,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *WebhookNotifier {
	return &WebhookNotifier{
		observerURLs: observerURLs,
		signingKey:   signingKey,
		sigSvc:       sigSvc,
		httpClient:   httpClient,
		log:          log,
	}
}

// Notify fans the event out to all observers asynchronously.
func (n *WebhookNotifier) Notify(event *domain.Event) {
	if len(n.observerURLs) == 0 {
		return
	}

	signature := n.sigSvc.Sign(n.signingKey, string(event.Attributes))
	payload := NotificationPayload{
		EventID:    event.ID.String(),
		EventType:  event.Type,
		Attributes: event.Attributes,
		CreatedAt:  event.CreatedAt.Unix(),
		Signature:  signature,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		n.log.Error().Err(err).Str("event", string(event.Type)).Msg("notify: failed to marshal payload")
		return
	}

	for _, url := range n.observerURLs {
		go n.deliverWithRetries(url, payloadBytes, event.ID.String())
	}
}

// deliverWithRetries attempts to deliver the notification with backoff.
func (n *WebhookNotifier) deliverWithRetries(url string, payload []byte, eventID string) {
	for attempt := 0; attempt <= len(notifyRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(notifyRetryIntervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			n.log.Error().Err(err).Str("event_id", eventID).Int("attempt", attempt+1).Msg("notify: failed to create request")
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.log.Warn().Err(err).Str("event_id", eventID).Int("attempt", attempt+1).Msg("notify: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n.log.Info().Str("event_id", eventID).Str("url", url).Int("attempt", attempt+1).Msg("notify: delivered")
			return
		}

		n.log.Warn().Str("event_id", eventID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("notify: non-2xx response, retrying")
	}

	n.log.Error().Str("event_id", eventID).Str("url", url).Msg("notify: all retry attempts exhausted")
}
