package conversation

import (
	"github.com/citimaster/booking-platform/internal/intent"
	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/internal/session"
)

// Action is a side effect the engine decided on. The engine only
// decides; the turn processor executes actions in order after the
// transition completes.
type Action interface {
	isAction()
}

// Button is one tappable reply option, at most three per message.
type Button struct {
	ID    string
	Title string
}

// ListRow is one selectable row in a list message.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a heading.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// SendText delivers a plain text message.
type SendText struct {
	To   string
	Body string
}

// SendButtons delivers a message with quick-reply buttons.
type SendButtons struct {
	To      string
	Body    string
	Buttons []Button
}

// SendList delivers a message with a list picker.
type SendList struct {
	To          string
	Body        string
	ButtonTitle string
	Sections    []ListSection
}

// CreateLead persists a new lead. The processor writes the resulting
// lead ID into Booking, the cycle the engine was acting on. The engine
// may have already detached that cycle from the session (the no-match
// branch resets it), so the ID must not land on whatever booking the
// session holds at execution time.
type CreateLead struct {
	Request leads.CreateLeadRequest
	Booking *session.Booking
}

// SetLeadSlot records the chosen time window on the persisted lead.
type SetLeadSlot struct {
	LeadID string
	Slot   string
}

// CreateAssignment binds the current lead to the chosen vendor.
type CreateAssignment struct {
	LeadID     string
	VendorID   string
	MatchScore float64
}

// CreateCallbackRequest records a human-handoff request with the chat
// transcript that led to it.
type CreateCallbackRequest struct {
	Phone   string
	Email   string
	Message string
	History []intent.ChatTurn
}

// ClearSession drops the stored session so the next message starts
// fresh.
type ClearSession struct {
	Phone string
}

func (SendText) isAction()              {}
func (SendButtons) isAction()           {}
func (SendList) isAction()              {}
func (CreateLead) isAction()            {}
func (SetLeadSlot) isAction()           {}
func (CreateAssignment) isAction()      {}
func (CreateCallbackRequest) isAction() {}
func (ClearSession) isAction()          {}
