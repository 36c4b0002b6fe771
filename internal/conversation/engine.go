package conversation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/citimaster/booking-platform/internal/intent"
	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/internal/matching"
	"github.com/citimaster/booking-platform/internal/session"
	"github.com/citimaster/booking-platform/internal/vendors"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// EventType distinguishes how a message arrived.
type EventType string

const (
	EventText        EventType = "text"
	EventButtonReply EventType = "button"
	EventListReply   EventType = "list"
)

// Event is one inbound customer message, already stripped of transport
// framing.
type Event struct {
	From         string
	MessageID    string
	Type         EventType
	Text         string
	ReplyID      string
	ReplyTitle   string
	CustomerName string
}

// VendorPool supplies the read-only candidate snapshot for matching.
type VendorPool interface {
	Query(ctx context.Context, category, subcategory, postalCode string, activeOnly bool) ([]vendors.Vendor, error)
}

// Intent confidence above which the category prompt is skipped.
const confidentIntentThreshold = 0.7

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

	chatTriggers     = []string{"chat", "support"}
	callbackTriggers = []string{"callback", "call back", "human", "agent"}
	bookingTriggers  = []string{"book", "service"}
	partnerTriggers  = []string{"partner", "vendor", "join", "business"}
)

// Engine is the conversation state machine. It reads the vendor pool
// and the intent bridge, mutates the session state in place, and
// returns the side effects for the processor to execute. It never
// writes to storage itself.
type Engine struct {
	bridge  intent.Bridge
	pool    VendorPool
	matcher *matching.Matcher
	logger  *logging.Logger
}

// NewEngine wires the engine's collaborators.
func NewEngine(bridge intent.Bridge, pool VendorPool, matcher *matching.Matcher, logger *logging.Logger) *Engine {
	if bridge == nil {
		panic("conversation: intent bridge required")
	}
	if pool == nil {
		panic("conversation: vendor pool required")
	}
	if matcher == nil {
		matcher = matching.NewMatcher(matching.DefaultMaxResults)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{bridge: bridge, pool: pool, matcher: matcher, logger: logger}
}

// HandleTurn runs one transition. A turn never fails: collaborator
// errors degrade to the documented fallbacks and the machine moves on.
func (e *Engine) HandleTurn(ctx context.Context, state *session.State, ev Event) []Action {
	if ev.Type == EventText && !state.LanguageSet && strings.TrimSpace(ev.Text) != "" {
		state.Language = e.bridge.DetectLanguage(ctx, ev.Text)
		state.LanguageSet = true
	}

	// Free chat can be entered from anywhere except the handoff step.
	if ev.Type == EventText && state.Step != session.StepChat && state.Step != session.StepCallbackRequest {
		if matchesKeyword(ev.Text, chatTriggers) {
			// Switching to chat abandons any in-flight booking cycle.
			state.Step = session.StepChat
			state.Booking = &session.Booking{}
			state.EnsureChat()
			return []Action{SendText{To: ev.From, Body: chatEnterBody(state.Language)}}
		}
	}

	switch state.Step {
	case session.StepStart:
		return e.handleStart(ctx, state, ev)
	case session.StepCategory:
		return e.handleCategory(state, ev)
	case session.StepSubcategory:
		return e.handleSubcategory(state, ev)
	case session.StepAddress:
		return e.handleAddress(ctx, state, ev)
	case session.StepSlot:
		return e.handleSlot(state, ev)
	case session.StepConfirm:
		return e.handleConfirm(ctx, state, ev)
	case session.StepChat:
		return e.handleChat(ctx, state, ev)
	case session.StepCallbackRequest:
		return e.handleCallback(state, ev)
	default:
		e.logger.Error("session in unknown step, restarting", "phone", state.Phone, "step", state.Step)
		state.Step = session.StepStart
		state.Booking = &session.Booking{}
		return e.handleStart(ctx, state, ev)
	}
}

func (e *Engine) handleStart(ctx context.Context, state *session.State, ev Event) []Action {
	// A tap on a stale category menu still counts as a selection.
	if ev.ReplyID != "" && strings.HasPrefix(ev.ReplyID, categoryIDPrefix) {
		state.Step = session.StepCategory
		return e.handleCategory(state, ev)
	}

	// Vendor-side onboarding is handled offline; inquiries get an
	// informational reply and the session stays put.
	if ev.Type == EventText && matchesKeyword(ev.Text, partnerTriggers) {
		return []Action{SendText{To: ev.From, Body: partnerInfoBody(state.Language)}}
	}

	parsed := e.bridge.ParseIntent(ctx, ev.Text)

	if parsed.Intent == intent.IntentGreeting {
		state.Step = session.StepCategory
		return []Action{
			SendText{To: ev.From, Body: welcomeBody(state.Language, ev.CustomerName)},
			e.categoryList(ev.From, state.Language, categoryPromptBody(state.Language)),
		}
	}

	if parsed.Intent == intent.IntentServiceRequest && parsed.Confidence > confidentIntentThreshold {
		if cat, ok := categoryByCode(parsed.Category); ok {
			booking := state.EnsureBooking()
			booking.Category = cat.Code
			if sub, ok := subcategoryByCode(cat.Code, parsed.Subcategory); ok {
				booking.Subcategory = sub.Code
				state.Step = session.StepAddress
				return []Action{SendText{To: ev.From, Body: addressPromptBody(state.Language)}}
			}
			state.Step = session.StepSubcategory
			return []Action{e.subcategoryButtons(ev.From, state.Language, cat)}
		}
	}

	state.Step = session.StepCategory
	return []Action{e.categoryList(ev.From, state.Language, categoryPromptBody(state.Language))}
}

func (e *Engine) handleCategory(state *session.State, ev Event) []Action {
	code := strings.TrimPrefix(ev.ReplyID, categoryIDPrefix)
	if ev.ReplyID == "" {
		code = normalizeCode(ev.Text)
	}

	cat, ok := categoryByCode(code)
	if !ok {
		// Unrecognized choice keeps the customer here, never silently
		// restarts the flow.
		return []Action{e.categoryList(ev.From, state.Language, categoryRePromptBody(state.Language))}
	}

	booking := state.EnsureBooking()
	booking.Category = cat.Code
	booking.Subcategory = ""
	state.Step = session.StepSubcategory
	return []Action{e.subcategoryButtons(ev.From, state.Language, cat)}
}

func (e *Engine) handleSubcategory(state *session.State, ev Event) []Action {
	booking := state.EnsureBooking()

	code := strings.TrimPrefix(ev.ReplyID, subcategoryIDPrefix)
	if ev.ReplyID == "" {
		code = normalizeCode(ev.Text)
	}
	if sub, ok := subcategoryByCode(booking.Category, code); ok {
		booking.Subcategory = sub.Code
	} else {
		// Free text that is not a catalog code is carried as-is; the
		// matcher simply finds nothing for it and the no-match branch
		// takes over later.
		booking.Subcategory = code
	}

	state.Step = session.StepAddress
	return []Action{SendText{To: ev.From, Body: addressPromptBody(state.Language)}}
}

func (e *Engine) handleAddress(ctx context.Context, state *session.State, ev Event) []Action {
	booking := state.EnsureBooking()

	parsed := e.bridge.ParseAddress(ctx, ev.Text)
	addr := parsed.Address
	booking.Address = &addr

	var actions []Action
	if booking.LeadID == "" {
		// Duplicate deliveries replay this turn; an existing lead ID
		// means the lead was already created for this cycle.
		actions = append(actions, CreateLead{
			Request: leads.CreateLeadRequest{
				Phone:       ev.From,
				Category:    booking.Category,
				Subcategory: booking.Subcategory,
				Address:     addr,
			},
			Booking: booking,
		})
	}

	matches := e.findMatches(ctx, booking)
	if len(matches) == 0 {
		state.Step = session.StepStart
		state.Booking = &session.Booking{}
		return append(actions, SendText{To: ev.From, Body: noMatchBody(state.Language)})
	}

	state.Step = session.StepSlot
	return append(actions, e.slotButtons(ev.From, state.Language))
}

func (e *Engine) handleSlot(state *session.State, ev Event) []Action {
	booking := state.EnsureBooking()

	code := strings.TrimPrefix(ev.ReplyID, slotIDPrefix)
	if slot, ok := slotByCode(code); ok {
		booking.Slot = slot.label(state.Language)
	} else if strings.TrimSpace(ev.Text) != "" {
		booking.Slot = strings.TrimSpace(ev.Text)
	} else {
		return []Action{e.slotButtons(ev.From, state.Language)}
	}

	serviceLabel := booking.Subcategory
	if sub, ok := subcategoryByCode(booking.Category, booking.Subcategory); ok {
		serviceLabel = sub.label(state.Language)
	}
	street := ""
	if booking.Address != nil {
		street = booking.Address.Street
	}

	state.Step = session.StepConfirm
	var actions []Action
	if booking.LeadID != "" {
		actions = append(actions, SetLeadSlot{LeadID: booking.LeadID, Slot: booking.Slot})
	}
	return append(actions, SendButtons{
		To:   ev.From,
		Body: bookingSummaryBody(state.Language, serviceLabel, street, booking.Slot),
		Buttons: []Button{
			{ID: confirmYesID, Title: confirmYesLabel(state.Language)},
			{ID: confirmNoID, Title: confirmNoLabel(state.Language)},
		},
	})
}

func (e *Engine) handleConfirm(ctx context.Context, state *session.State, ev Event) []Action {
	booking := state.EnsureBooking()

	if ev.ReplyID == confirmYesID {
		matches := e.findMatches(ctx, booking)
		if len(matches) == 0 {
			state.Step = session.StepStart
			state.Booking = &session.Booking{}
			return []Action{SendText{To: ev.From, Body: noMatchBody(state.Language)}}
		}

		top := matches[0]
		actions := []Action{
			CreateAssignment{LeadID: booking.LeadID, VendorID: top.VendorID, MatchScore: top.Score},
			SendText{To: ev.From, Body: bookingConfirmedBody(state.Language, top.BusinessName)},
			ClearSession{Phone: state.Phone},
		}
		state.Step = session.StepStart
		state.Booking = &session.Booking{}
		return actions
	}

	// Anything but an explicit confirmation restarts the flow with the
	// same event.
	state.Step = session.StepStart
	state.Booking = &session.Booking{}
	actions := []Action{SendText{To: ev.From, Body: bookingCancelledBody(state.Language)}}
	return append(actions, e.handleStart(ctx, state, ev)...)
}

func (e *Engine) handleChat(ctx context.Context, state *session.State, ev Event) []Action {
	chat := state.EnsureChat()

	if matchesKeyword(ev.Text, callbackTriggers) {
		state.Step = session.StepCallbackRequest
		return []Action{SendText{To: ev.From, Body: callbackPromptBody(state.Language)}}
	}

	if matchesKeyword(ev.Text, bookingTriggers) {
		state.Chat = nil
		state.Step = session.StepCategory
		state.Booking = &session.Booking{}
		return []Action{e.categoryList(ev.From, state.Language, categoryPromptBody(state.Language))}
	}

	history := chatTurns(chat.History)
	reply := e.bridge.Chat(ctx, state.Language, history, ev.Text)

	now := time.Now().UTC()
	chat.History = append(chat.History,
		session.ChatMessage{Role: intent.RoleUser, Content: ev.Text, SentAt: now},
		session.ChatMessage{Role: intent.RoleAssistant, Content: reply, SentAt: now},
	)
	return []Action{SendText{To: ev.From, Body: reply}}
}

func (e *Engine) handleCallback(state *session.State, ev Event) []Action {
	chat := state.EnsureChat()

	email := emailPattern.FindString(ev.Text)
	actions := []Action{
		CreateCallbackRequest{
			Phone:   ev.From,
			Email:   email,
			Message: ev.Text,
			History: chatTurns(chat.History),
		},
		SendText{To: ev.From, Body: callbackConfirmedBody(state.Language)},
	}

	state.Chat = nil
	state.Step = session.StepStart
	state.Booking = &session.Booking{}
	return actions
}

// findMatches fetches the candidate snapshot and ranks it. A pool
// failure degrades to the no-match branch.
func (e *Engine) findMatches(ctx context.Context, booking *session.Booking) []matching.Match {
	if booking.Address == nil {
		return nil
	}
	pool, err := e.pool.Query(ctx, booking.Category, booking.Subcategory, booking.Address.PostalCode, true)
	if err != nil {
		e.logger.Error("vendor pool query failed", "category", booking.Category, "error", err)
		return nil
	}
	return e.matcher.FindMatches(matching.Request{
		Category:    booking.Category,
		Subcategory: booking.Subcategory,
		PostalCode:  booking.Address.PostalCode,
		Location:    booking.Address.Location,
	}, pool)
}

func (e *Engine) categoryList(to, language, body string) SendList {
	rows := make([]ListRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, ListRow{ID: categoryIDPrefix + c.Code, Title: c.label(language)})
	}
	// Two sections of three, like the menu customers already know.
	half := (len(rows) + 1) / 2
	return SendList{
		To:          to,
		Body:        body,
		ButtonTitle: categoryListTitle(language),
		Sections: []ListSection{
			{Title: popularServicesTitle(language), Rows: rows[:half]},
			{Title: moreServicesTitle(language), Rows: rows[half:]},
		},
	}
}

func (e *Engine) subcategoryButtons(to, language string, cat ServiceCategory) Action {
	subs := subcategories[cat.Code]
	body := subcategoryPromptBody(language, cat.label(language))

	// Button messages cap at three options; larger sets go as a list.
	if len(subs) <= 3 {
		buttons := make([]Button, 0, len(subs))
		for _, s := range subs {
			buttons = append(buttons, Button{ID: subcategoryIDPrefix + s.Code, Title: s.label(language)})
		}
		return SendButtons{To: to, Body: body, Buttons: buttons}
	}

	rows := make([]ListRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, ListRow{ID: subcategoryIDPrefix + s.Code, Title: s.label(language)})
	}
	return SendList{
		To:          to,
		Body:        body,
		ButtonTitle: categoryListTitle(language),
		Sections:    []ListSection{{Title: cat.label(language), Rows: rows}},
	}
}

func (e *Engine) slotButtons(to, language string) SendButtons {
	buttons := make([]Button, 0, len(timeSlots))
	for _, s := range timeSlots {
		buttons = append(buttons, Button{ID: slotIDPrefix + s.Code, Title: s.label(language)})
	}
	return SendButtons{To: to, Body: slotPromptBody(language), Buttons: buttons}
}

func matchesKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	padded := " " + lower + " "
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

func normalizeCode(text string) string {
	trimmed := strings.TrimSpace(strings.ToUpper(text))
	return strings.ReplaceAll(trimmed, " ", "_")
}

func chatTurns(history []session.ChatMessage) []intent.ChatTurn {
	turns := make([]intent.ChatTurn, 0, len(history))
	for _, m := range history {
		turns = append(turns, intent.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}
