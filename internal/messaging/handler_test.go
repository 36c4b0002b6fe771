package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/citimaster/booking-platform/internal/conversation"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []conversation.Event
}

func (s *stubPublisher) EnqueueEvent(_ context.Context, ev conversation.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

type stubMarker struct {
	seen map[string]bool
}

func (s *stubMarker) MarkProcessed(_ context.Context, _ string, eventID string) (bool, error) {
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func TestVerifyHandshake(t *testing.T) {
	h := NewWebhookHandler(WebhookHandlerConfig{
		VerifyToken: "secret",
		Publisher:   &stubPublisher{},
	})

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "12345" {
		t.Fatalf("expected challenge echoed, got %q", rec.Body.String())
	}
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	h := NewWebhookHandler(WebhookHandlerConfig{
		VerifyToken: "secret",
		Publisher:   &stubPublisher{},
	})

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestReceiveEnqueuesEvents(t *testing.T) {
	pub := &stubPublisher{}
	h := NewWebhookHandler(WebhookHandlerConfig{
		VerifyToken: "secret",
		Publisher:   pub,
		Processed:   &stubMarker{},
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textWebhook))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", len(pub.events))
	}
	if pub.events[0].Text != "hello" {
		t.Fatalf("unexpected event: %+v", pub.events[0])
	}
}

func TestReceiveSkipsDuplicateDeliveries(t *testing.T) {
	pub := &stubPublisher{}
	h := NewWebhookHandler(WebhookHandlerConfig{
		VerifyToken: "secret",
		Publisher:   pub,
		Processed:   &stubMarker{},
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textWebhook))
		rec := httptest.NewRecorder()
		h.Receive(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected duplicate suppressed, got %d events", len(pub.events))
	}
}

func TestReceiveAcksUnparseableBody(t *testing.T) {
	pub := &stubPublisher{}
	h := NewWebhookHandler(WebhookHandlerConfig{Publisher: pub})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("provider must always get 200, got %d", rec.Code)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %d", len(pub.events))
	}
}
