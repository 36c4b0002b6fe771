package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/citimaster/booking-platform/internal/customers"
	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/internal/observability/metrics"
	"github.com/citimaster/booking-platform/internal/session"
	"github.com/citimaster/booking-platform/internal/support"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// Messenger is the outbound delivery sink. Send failures are logged and
// never block a state transition.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	SendList(ctx context.Context, to, body, buttonTitle string, sections []ListSection) error
}

// MessageLog records message traffic for the admin dashboard.
type MessageLog interface {
	LogInbound(ctx context.Context, phone, messageID, body string) error
	LogOutbound(ctx context.Context, phone, body string) error
}

// Processor executes one conversation turn end to end: serialize per
// customer, load state, run the engine, execute the emitted actions,
// persist the new state.
type Processor struct {
	sessions  session.Store
	engine    *Engine
	messenger Messenger
	customers customers.Repository
	leads     leads.Repository
	callbacks support.Repository
	messages  MessageLog
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger

	locks sync.Map // phone -> *sync.Mutex
}

// ProcessorConfig wires the processor's collaborators.
type ProcessorConfig struct {
	Sessions  session.Store
	Engine    *Engine
	Messenger Messenger
	Customers customers.Repository
	Leads     leads.Repository
	Callbacks support.Repository
	Messages  MessageLog
	Metrics   *metrics.ConversationMetrics
	Logger    *logging.Logger
}

// NewProcessor validates the config and builds a Processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.Sessions == nil {
		panic("conversation: session store required")
	}
	if cfg.Engine == nil {
		panic("conversation: engine required")
	}
	if cfg.Messenger == nil {
		panic("conversation: messenger required")
	}
	if cfg.Customers == nil {
		panic("conversation: customers repository required")
	}
	if cfg.Leads == nil {
		panic("conversation: leads repository required")
	}
	if cfg.Callbacks == nil {
		panic("conversation: callbacks repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Processor{
		sessions:  cfg.Sessions,
		engine:    cfg.Engine,
		messenger: cfg.Messenger,
		customers: cfg.Customers,
		leads:     cfg.Leads,
		callbacks: cfg.Callbacks,
		messages:  cfg.Messages,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
}

// ProcessEvent runs one turn. Turns for the same phone number are
// serialized; different customers proceed in parallel.
func (p *Processor) ProcessEvent(ctx context.Context, ev Event) error {
	if ev.From == "" {
		return fmt.Errorf("conversation: event missing sender")
	}

	unlock := p.lockForPhone(ev.From)
	defer unlock()

	customer, err := p.customers.GetOrCreate(ctx, ev.From)
	if err != nil {
		return fmt.Errorf("conversation: resolve customer: %w", err)
	}

	state, err := p.sessions.Load(ctx, ev.From)
	if err != nil {
		return fmt.Errorf("conversation: load session: %w", err)
	}

	if p.messages != nil {
		body := ev.Text
		if body == "" {
			body = ev.ReplyTitle
		}
		if err := p.messages.LogInbound(ctx, ev.From, ev.MessageID, body); err != nil {
			p.logger.Warn("failed to log inbound message", "error", err, "phone", ev.From)
		}
	}

	actions := p.engine.HandleTurn(ctx, state, ev)

	cleared := false
	for _, action := range actions {
		if err := p.execute(ctx, customer.ID, action); err != nil {
			p.metrics.ObserveTurn(string(state.Step), "error")
			return err
		}
		if _, ok := action.(ClearSession); ok {
			cleared = true
		}
	}

	if !cleared {
		if err := p.sessions.Save(ctx, state); err != nil {
			p.metrics.ObserveTurn(string(state.Step), "error")
			return fmt.Errorf("conversation: save session: %w", err)
		}
	}

	p.metrics.ObserveTurn(string(state.Step), "ok")
	return nil
}

// execute runs one action. Messaging failures are logged but do not
// fail the turn; store failures do, so the queue can redeliver.
func (p *Processor) execute(ctx context.Context, customerID string, action Action) error {
	switch a := action.(type) {
	case SendText:
		p.deliver(ctx, "text", a.To, a.Body, func() error {
			return p.messenger.SendText(ctx, a.To, a.Body)
		})
	case SendButtons:
		p.deliver(ctx, "buttons", a.To, a.Body, func() error {
			return p.messenger.SendButtons(ctx, a.To, a.Body, a.Buttons)
		})
	case SendList:
		p.deliver(ctx, "list", a.To, a.Body, func() error {
			return p.messenger.SendList(ctx, a.To, a.Body, a.ButtonTitle, a.Sections)
		})
	case CreateLead:
		req := a.Request
		req.CustomerID = customerID
		lead, err := p.leads.Create(ctx, &req)
		if err != nil {
			return fmt.Errorf("conversation: create lead: %w", err)
		}
		if a.Booking != nil {
			a.Booking.LeadID = lead.ID
		}
		p.logger.Info("lead created", "lead_id", lead.ID, "category", lead.Category, "phone", lead.Phone)
	case SetLeadSlot:
		if err := p.leads.SetSlot(ctx, a.LeadID, a.Slot); err != nil {
			return fmt.Errorf("conversation: set lead slot: %w", err)
		}
	case CreateAssignment:
		asg, err := p.leads.CreateAssignment(ctx, a.LeadID, a.VendorID, a.MatchScore)
		if err != nil {
			return fmt.Errorf("conversation: create assignment: %w", err)
		}
		p.metrics.ObserveMatch("assigned")
		p.logger.Info("vendor assigned", "lead_id", a.LeadID, "vendor_id", a.VendorID, "score", asg.MatchScore)
	case CreateCallbackRequest:
		history := make([]support.ChatEntry, 0, len(a.History))
		for _, turn := range a.History {
			history = append(history, support.ChatEntry{Role: turn.Role, Content: turn.Content})
		}
		cb, err := p.callbacks.Create(ctx, &support.CreateCallbackRequest{
			Phone:   a.Phone,
			Email:   a.Email,
			Message: a.Message,
			History: history,
		})
		if err != nil {
			return fmt.Errorf("conversation: create callback request: %w", err)
		}
		p.logger.Info("callback requested", "callback_id", cb.ID, "phone", a.Phone)
	case ClearSession:
		if err := p.sessions.Delete(ctx, a.Phone); err != nil {
			p.logger.Warn("failed to clear session", "error", err, "phone", a.Phone)
		}
	default:
		return fmt.Errorf("conversation: unknown action %T", action)
	}
	return nil
}

func (p *Processor) deliver(ctx context.Context, kind, to, body string, send func() error) {
	if err := send(); err != nil {
		p.metrics.ObserveOutbound(kind, "error")
		p.logger.Error("outbound send failed", "error", err, "kind", kind, "to", to)
		return
	}
	p.metrics.ObserveOutbound(kind, "sent")
	if p.messages != nil {
		if err := p.messages.LogOutbound(ctx, to, body); err != nil {
			p.logger.Warn("failed to log outbound message", "error", err, "phone", to)
		}
	}
}

func (p *Processor) lockForPhone(phone string) func() {
	val, _ := p.locks.LoadOrStore(phone, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
