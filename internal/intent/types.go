package intent

import "github.com/citimaster/booking-platform/internal/leads"

// Intent labels what the customer's first free-form message is asking for.
type Intent string

const (
	IntentServiceRequest Intent = "SERVICE_REQUEST"
	IntentQuery          Intent = "QUERY"
	IntentComplaint      Intent = "COMPLAINT"
	IntentGreeting       Intent = "GREETING"
	IntentUnknown        Intent = "UNKNOWN"
)

// ParsedIntent is the classification of an inbound message plus any
// service the classifier could pin down.
type ParsedIntent struct {
	Intent      Intent  `json:"intent"`
	Category    string  `json:"category,omitempty"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// ParsedAddress is a structured address extracted from free text. Parsed
// reports whether real extraction happened or the fallback was used.
type ParsedAddress struct {
	Address leads.Address `json:"address"`
	Parsed  bool          `json:"parsed"`
}

// ChatTurn is one prior exchange handed to the chat completion.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
