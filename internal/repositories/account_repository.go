package repositories

import (
	"escrowd/internal/models"
)

// AccountRepository is the ledger: balance bookkeeping for every principal
// and engine-controlled account.
type AccountRepository interface {
	Get(address string) (*models.Account, error)
	GetOrCreate(address string) (*models.Account, error)
	Create(account *models.Account) error
	// Credit adds amount to the account, creating it if missing.
	Credit(address string, amount int64) error
	// Debit removes amount from the account. Fails with
	// ErrInsufficientFunds when the balance does not cover it.
	Debit(address string, amount int64) error
	// Transfer moves amount between two accounts.
	Transfer(from, to string, amount int64) error
	Balance(address string) (int64, error)
}
