package messaging

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/citimaster/booking-platform/internal/conversation"
	"github.com/citimaster/booking-platform/internal/events"
	"github.com/citimaster/booking-platform/internal/observability/metrics"
	"github.com/citimaster/booking-platform/pkg/logging"
)

const maxWebhookBody = 1 << 20

// ProcessedMarker deduplicates redelivered webhooks.
type ProcessedMarker interface {
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// WebhookHandler terminates the WhatsApp Cloud API webhook. It verifies
// the subscription handshake, acknowledges deliveries immediately, and
// pushes fresh events onto the conversation queue.
type WebhookHandler struct {
	verifyToken string
	publisher   conversation.EventPublisher
	processed   ProcessedMarker
	metrics     *metrics.ConversationMetrics
	logger      *logging.Logger
}

// WebhookHandlerConfig wires the handler's collaborators. Processed and
// Metrics are optional.
type WebhookHandlerConfig struct {
	VerifyToken string
	Publisher   conversation.EventPublisher
	Processed   ProcessedMarker
	Metrics     *metrics.ConversationMetrics
	Logger      *logging.Logger
}

// NewWebhookHandler validates the config and builds a handler.
func NewWebhookHandler(cfg WebhookHandlerConfig) *WebhookHandler {
	if cfg.Publisher == nil {
		panic("messaging: publisher required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: cfg.VerifyToken,
		publisher:   cfg.Publisher,
		processed:   cfg.Processed,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Verify answers Meta's subscription handshake.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken && h.verifyToken != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	h.logger.Warn("webhook verification rejected", "mode", q.Get("hub.mode"))
	http.Error(w, "verification failed", http.StatusForbidden)
}

// Receive accepts a webhook delivery. The response is always 200 so the
// provider stops retrying; real processing happens on the queue.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	evs, err := ParseWebhook(body)
	if err != nil {
		h.logger.Warn("discarding unparseable webhook", "error", err)
		h.metrics.ObserveInbound("unknown", "rejected")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, ev := range evs {
		if h.processed != nil && ev.MessageID != "" {
			fresh, err := h.processed.MarkProcessed(r.Context(), events.ProviderWhatsApp, ev.MessageID)
			if err != nil {
				h.logger.Error("dedup check failed, processing anyway", "error", err, "message_id", ev.MessageID)
			} else if !fresh {
				h.logger.Debug("duplicate webhook delivery skipped", "message_id", ev.MessageID)
				h.metrics.ObserveInbound(string(ev.Type), "duplicate")
				continue
			}
		}

		if err := h.publisher.EnqueueEvent(r.Context(), ev); err != nil {
			h.logger.Error("failed to enqueue inbound event", "error", err, "from", ev.From)
			h.metrics.ObserveInbound(string(ev.Type), "error")
			continue
		}
		h.metrics.ObserveInbound(string(ev.Type), "accepted")
		h.metrics.ObserveWebhookLatency(string(ev.Type), time.Since(start).Seconds())
	}

	w.WriteHeader(http.StatusOK)
}
