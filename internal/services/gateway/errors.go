package gateway

import "errors"

var (
	// ErrFeeExceedsLimit rejects a fee above the permille cap for the value.
	ErrFeeExceedsLimit = errors.New("fee exceeds limit")
	// ErrInvalidValue rejects zero or negative payment values.
	ErrInvalidValue = errors.New("invalid value")
)
