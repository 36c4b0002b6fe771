package support

import "errors"

var (
	// ErrCallbackNotFound is returned when no callback request exists
	// for the given ID.
	ErrCallbackNotFound = errors.New("support: callback request not found")

	// ErrMissingPhone is returned when a callback request has no phone
	// number to call.
	ErrMissingPhone = errors.New("support: phone number is required")

	// ErrInvalidStatus is returned for a status outside the known
	// lifecycle.
	ErrInvalidStatus = errors.New("support: invalid callback status")
)
