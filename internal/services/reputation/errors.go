package reputation

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already registered")
	ErrInvalidUser   = errors.New("invalid user address")
	ErrInvalidClaim  = errors.New("invalid claim amount")
	ErrEmptyBatch    = errors.New("empty batch")
	ErrBatchMismatch = errors.New("batch slice lengths differ")
)
