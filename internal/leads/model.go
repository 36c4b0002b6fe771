package leads

import (
	"strings"
	"time"

	"github.com/citimaster/booking-platform/internal/geo"
)

// Lead statuses over its lifecycle.
const (
	StatusPending   = "PENDING"
	StatusAssigned  = "ASSIGNED"
	StatusAccepted  = "ACCEPTED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Address is a structured Indian street address captured during booking.
type Address struct {
	Street     string         `json:"street"`
	Area       string         `json:"area,omitempty"`
	City       string         `json:"city"`
	PostalCode string         `json:"postal_code"`
	Landmark   string         `json:"landmark,omitempty"`
	Location   geo.Coordinate `json:"location"`
}

// Lead is a persisted customer service request awaiting vendor assignment.
type Lead struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Phone       string    `json:"phone"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Address     Address   `json:"address"`
	Slot        string    `json:"slot,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assignment binds a lead to the vendor chosen for it, with the match score
// that justified the choice.
type Assignment struct {
	ID         string    `json:"id"`
	LeadID     string    `json:"lead_id"`
	VendorID   string    `json:"vendor_id"`
	MatchScore float64   `json:"match_score"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateLeadRequest carries the fields needed to persist a new lead.
type CreateLeadRequest struct {
	CustomerID  string  `json:"customer_id"`
	Phone       string  `json:"phone"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Address     Address `json:"address"`
}

// Validate checks the create lead request.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.CustomerID) == "" {
		return ErrMissingCustomer
	}
	if strings.TrimSpace(r.Category) == "" || strings.TrimSpace(r.Subcategory) == "" {
		return ErrMissingService
	}
	if strings.TrimSpace(r.Address.Street) == "" {
		return ErrMissingAddress
	}
	return nil
}
