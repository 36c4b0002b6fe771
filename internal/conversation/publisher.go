package conversation

import (
	"context"
	"fmt"

	"github.com/citimaster/booking-platform/pkg/logging"
)

// EventPublisher hands inbound events to the async pipeline. The
// webhook handler depends on this rather than on a concrete queue.
type EventPublisher interface {
	EnqueueEvent(ctx context.Context, ev Event) error
}

// Publisher enqueues conversation events onto the configured queue.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher builds a Publisher. The queue may be a MemoryQueue or an
// SQSQueue; the publisher does not care which.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("conversation: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

var _ EventPublisher = (*Publisher)(nil)

// EnqueueEvent serializes the event and puts it on the queue.
func (p *Publisher) EnqueueEvent(ctx context.Context, ev Event) error {
	payload, body, err := encodePayload(queuePayload{Event: ev})
	if err != nil {
		return err
	}
	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("conversation: failed to enqueue event: %w", err)
	}
	p.logger.Debug("conversation event enqueued", "job_id", payload.ID, "from", ev.From, "type", ev.Type)
	return nil
}
