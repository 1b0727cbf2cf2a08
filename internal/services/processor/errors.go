package processor

import "errors"

var (
	// ErrInvalidState rejects a transition from any state other than the
	// one the operation requires.
	ErrInvalidState = errors.New("invalid order state")
	// ErrInvalidAmount rejects payments that do not match the price exactly.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidOrder rejects zero order identifiers.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrOrderExists rejects adding an order whose id is already taken.
	ErrOrderExists   = errors.New("order already exists")
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyWithdrawn rejects a second pull of the same refund.
	ErrAlreadyWithdrawn = errors.New("refund already withdrawn")
	// ErrMerchantMismatch rejects collaborators configured for a different
	// merchant identity.
	ErrMerchantMismatch = errors.New("merchant id mismatch")
)
