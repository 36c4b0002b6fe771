package session

import (
	"fmt"
	"time"

	"github.com/citimaster/booking-platform/internal/leads"
)

// Step identifies where a customer is in the guided conversation.
type Step string

const (
	StepStart           Step = "START"
	StepCategory        Step = "CATEGORY"
	StepSubcategory     Step = "SUBCATEGORY"
	StepAddress         Step = "ADDRESS"
	StepSlot            Step = "SLOT"
	StepConfirm         Step = "CONFIRM"
	StepChat            Step = "CHAT"
	StepCallbackRequest Step = "CALLBACK_REQUEST"
)

// Languages the conversation can run in. Once detected, the choice is
// sticky for the rest of the session.
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// ChatMessage is one exchange in free-form chat mode.
type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

// Booking accumulates the answers of a guided booking flow. Fields fill
// in step order and earlier fields stay set as the flow advances.
type Booking struct {
	Category    string        `json:"category,omitempty"`
	Subcategory string        `json:"subcategory,omitempty"`
	Address     *leads.Address `json:"address,omitempty"`
	Slot        string        `json:"slot,omitempty"`
	LeadID      string        `json:"leadId,omitempty"`
}

// Chat holds free-form conversation context while the customer is out of
// the guided flow.
type Chat struct {
	History []ChatMessage `json:"history,omitempty"`
	Email   string        `json:"email,omitempty"`
}

// State is the per-customer conversation state persisted between turns.
type State struct {
	Phone    string `json:"phone"`
	Step     Step   `json:"step"`
	Language string `json:"language"`
	// LanguageSet marks that the language was detected from a real
	// message. Detection runs once per session and the result sticks.
	LanguageSet bool      `json:"languageSet,omitempty"`
	Booking     *Booking  `json:"booking,omitempty"`
	Chat        *Chat     `json:"chat,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewState returns the state a customer starts every session in.
func NewState(phone string) *State {
	return &State{
		Phone:    phone,
		Step:     StepStart,
		Language: LanguageEnglish,
		Booking:  &Booking{},
	}
}

// EnsureBooking returns the booking sub-state, allocating it if a prior
// chat turn cleared it.
func (s *State) EnsureBooking() *Booking {
	if s.Booking == nil {
		s.Booking = &Booking{}
	}
	return s.Booking
}

// EnsureChat returns the chat sub-state, allocating it on first use.
func (s *State) EnsureChat() *Chat {
	if s.Chat == nil {
		s.Chat = &Chat{}
	}
	return s.Chat
}

// Validate checks that the populated fields are consistent with the step
// the session claims to be in.
func (s *State) Validate() error {
	if s.Phone == "" {
		return fmt.Errorf("session: phone required")
	}
	switch s.Step {
	case StepStart, StepCategory:
	case StepSubcategory:
		if s.Booking == nil || s.Booking.Category == "" {
			return fmt.Errorf("session: step %s requires a category", s.Step)
		}
	case StepAddress:
		if s.Booking == nil || s.Booking.Category == "" || s.Booking.Subcategory == "" {
			return fmt.Errorf("session: step %s requires a selected service", s.Step)
		}
	case StepSlot:
		if s.Booking == nil || s.Booking.Address == nil {
			return fmt.Errorf("session: step %s requires an address", s.Step)
		}
	case StepConfirm:
		if s.Booking == nil || s.Booking.Address == nil || s.Booking.Slot == "" {
			return fmt.Errorf("session: step %s requires an address and slot", s.Step)
		}
	case StepChat, StepCallbackRequest:
		if s.Chat == nil {
			return fmt.Errorf("session: step %s requires chat context", s.Step)
		}
	default:
		return fmt.Errorf("session: unknown step %q", s.Step)
	}
	if s.Booking != nil {
		// A lead exists only once an address turn completed with
		// matches, and a slot only once the customer picked one. A
		// session carrying either at an earlier step leaked state from
		// a previous cycle.
		if s.Booking.LeadID != "" && s.Step != StepSlot && s.Step != StepConfirm {
			return fmt.Errorf("session: step %s cannot carry a lead id", s.Step)
		}
		if s.Booking.Slot != "" && s.Step != StepConfirm {
			return fmt.Errorf("session: step %s cannot carry a slot", s.Step)
		}
	}
	switch s.Language {
	case LanguageEnglish, LanguageHindi:
	default:
		return fmt.Errorf("session: unknown language %q", s.Language)
	}
	return nil
}
