package leads

import "errors"

var (
	// ErrLeadNotFound is returned when no lead matches the given id.
	ErrLeadNotFound = errors.New("leads: lead not found")
	// ErrMissingCustomer is returned when a lead has no owning customer.
	ErrMissingCustomer = errors.New("leads: customer id is required")
	// ErrMissingService is returned when category or subcategory is empty.
	ErrMissingService = errors.New("leads: category and subcategory are required")
	// ErrMissingAddress is returned when the lead has no street address.
	ErrMissingAddress = errors.New("leads: street address is required")
)
