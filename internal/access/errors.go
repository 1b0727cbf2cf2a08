package access

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPaused is returned by mutating operations while the component is paused.
	ErrPaused = errors.New("contract paused")
	// ErrInvalidOwner rejects ownership transfer to an empty principal.
	ErrInvalidOwner = errors.New("invalid owner")
)
