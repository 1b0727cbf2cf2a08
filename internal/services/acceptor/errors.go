package acceptor

import "errors"

var (
	// ErrOrderExpired rejects payment after the order lifetime elapsed.
	ErrOrderExpired = errors.New("order expired")
	// ErrOrderNotExpired rejects cancellation before the lifetime elapsed.
	ErrOrderNotExpired = errors.New("order not expired")
	ErrInvalidState    = errors.New("invalid acceptor state")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidOrder    = errors.New("invalid order")
)
