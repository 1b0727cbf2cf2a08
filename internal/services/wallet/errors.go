package wallet

import "errors"

var (
	// ErrInvalidRecipient rejects fund addresses that point at an
	// engine-controlled account.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrBelowMinimum rejects a sweep when the balance is under the floor.
	ErrBelowMinimum = errors.New("balance below minimum")
	// ErrInvalidAccount rejects empty principals.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrInvalidAmount rejects zero or negative withdrawal amounts.
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrWalletNotFound = errors.New("wallet not found")
)
