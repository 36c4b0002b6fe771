package vendors

import "errors"

var (
	// ErrVendorNotFound is returned when no vendor matches the lookup.
	ErrVendorNotFound = errors.New("vendors: vendor not found")
	// ErrMissingBusinessName is returned when a vendor record has no business name.
	ErrMissingBusinessName = errors.New("vendors: business name is required")
	// ErrMissingPhone is returned when a vendor record has no phone number.
	ErrMissingPhone = errors.New("vendors: phone number is required")
)
