package repositories

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrOrderNotFound      = errors.New("order not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrClaimNotFound      = errors.New("claim not found")
	ErrAcceptorNotFound   = errors.New("acceptor not found")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrDuplicateRecord    = errors.New("duplicate record")
)
