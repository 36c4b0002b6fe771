package support

import "time"

// Callback request lifecycle.
const (
	StatusPending   = "PENDING"
	StatusContacted = "CONTACTED"
	StatusResolved  = "RESOLVED"
)

// ChatEntry is one line of the transcript attached to a callback
// request.
type ChatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallbackRequest is a customer's ask to be called by a human, captured
// with whatever context the chat collected.
type CallbackRequest struct {
	ID        string      `json:"id"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email,omitempty"`
	Message   string      `json:"message,omitempty"`
	History   []ChatEntry `json:"history,omitempty"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CreateCallbackRequest carries the fields for a new callback request.
type CreateCallbackRequest struct {
	Phone   string
	Email   string
	Message string
	History []ChatEntry
}
