package wallet

import (
	"context"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
)

// Service is a merchant's custody wallet: the accumulated merchant balance,
// payout routing, merchant-controlled settings and the composite reputation
// ledger.
type Service interface {
	MerchantID() string
	Wallet(ctx context.Context) (*models.MerchantWallet, error)
	Balance(ctx context.Context) (int64, error)
	// DestinationAddress is where settled funds should be paid: the fund
	// address when the merchant set one, the wallet escrow account otherwise.
	DestinationAddress(ctx context.Context) (string, error)
	DestinationAddressTx(tx *repositories.Store) (string, error)

	// Profile and settings: owner-gated key/value upserts.
	SetProfile(ctx context.Context, caller, key, value, repCategory string, repValue int64) error
	SetPaymentSettings(ctx context.Context, caller, key, value string) error
	Profile(ctx context.Context, key string) (string, error)
	PaymentSetting(ctx context.Context, key string) (string, error)

	// Composite reputation: operator-gated, last-write-wins per category.
	SetCompositeReputation(ctx context.Context, caller, category string, value int64) error
	SetCompositeReputationTx(tx *repositories.Store, caller, category string, value int64) error
	CompositeReputation(ctx context.Context, category string) (int64, error)

	// Merchant-controlled settings.
	ChangeMerchantAccount(ctx context.Context, caller, newAccount string) error
	ChangeFundAddress(ctx context.Context, caller, newAddress string) error

	// Withdrawals.
	WithdrawTo(ctx context.Context, caller, recipient string, amount int64) error
	WithdrawToExchange(ctx context.Context, caller, recipient string, amount int64) error
	WithdrawAllToExchange(ctx context.Context, caller, recipient string, minAmount int64) error

	Control() *access.Control
}

// Cache is the subset of the cache service the wallet uses. A nil cache is
// valid and skips caching entirely.
type Cache interface {
	CacheWallet(ctx context.Context, wallet *models.MerchantWallet) error
	GetWallet(ctx context.Context, merchantID string) (*models.MerchantWallet, error)
	InvalidateWallet(ctx context.Context, merchantID string) error
}
