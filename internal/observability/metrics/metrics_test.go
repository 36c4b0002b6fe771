package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConversationMetricsObserve(t *testing.T) {
	m := NewConversationMetrics(prometheus.NewRegistry())
	m.ObserveInbound("text", "accepted")
	m.ObserveOutbound("buttons", "sent")
	m.ObserveTurn("CATEGORY", "ok")
	m.ObserveMatch("found")
	m.ObserveWebhookLatency("text", 0.5)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveInbound("text", "accepted")
	m.ObserveOutbound("text", "sent")
	m.ObserveTurn("START", "ok")
	m.ObserveMatch("empty")
	m.ObserveWebhookLatency("text", 0.1)
}
