package wallet

import (
	"context"
	"errors"
	"testing"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
	"escrowd/internal/services/payout"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repositories.Migrate(db))
	return repositories.NewStore(db)
}

func newTestWallet(t *testing.T, store *repositories.Store, provider payout.Provider) (Service, *access.Control) {
	t.Helper()

	ctl, err := access.NewControl("wallet", "owner", nil)
	require.NoError(t, err)
	require.NoError(t, ctl.SetOperator("owner", "operator", true))

	svc, err := NewService(store, nil, ctl, provider, Config{
		MerchantID:      "m1",
		MerchantAccount: "merchant-account",
		EscrowAddress:   "escrow:wallet:m1",
	})
	require.NoError(t, err)
	return svc, ctl
}

func TestNewServiceCreatesWallet(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestWallet(t, store, nil)
	ctx := context.Background()

	w, err := svc.Wallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "merchant-account", w.MerchantAccount)
	assert.Equal(t, "escrow:wallet:m1", w.EscrowAddress)

	// The escrow account is engine-controlled.
	account, err := store.Accounts.Get("escrow:wallet:m1")
	require.NoError(t, err)
	assert.True(t, account.IsContract)

	// Re-construction over the same store is idempotent.
	svc2, _ := newTestWallet(t, store, nil)
	w2, err := svc2.Wallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.ID, w2.ID)
}

func TestDestinationAddress(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestWallet(t, store, nil)
	ctx := context.Background()

	addr, err := svc.DestinationAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "escrow:wallet:m1", addr)

	require.NoError(t, svc.ChangeFundAddress(ctx, "merchant-account", "cold-storage"))

	addr, err = svc.DestinationAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cold-storage", addr)
}

func TestProfileAndSettings(t *testing.T) {
	store := newTestStore(t)
	svc, ctl := newTestWallet(t, store, nil)
	ctx := context.Background()

	t.Run("owner writes profile with reputation", func(t *testing.T) {
		require.NoError(t, svc.SetProfile(ctx, "owner", "name", "Acme", "total", 42))

		value, err := svc.Profile(ctx, "name")
		require.NoError(t, err)
		assert.Equal(t, "Acme", value)

		score, err := svc.CompositeReputation(ctx, "total")
		require.NoError(t, err)
		assert.Equal(t, int64(42), score)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.SetProfile(ctx, "operator", "name", "Evil", "", 0), access.ErrUnauthorized)
		assert.ErrorIs(t, svc.SetPaymentSettings(ctx, "mallory", "fee", "low"), access.ErrUnauthorized)
	})

	t.Run("settings upsert", func(t *testing.T) {
		require.NoError(t, svc.SetPaymentSettings(ctx, "owner", "currency", "usd"))
		require.NoError(t, svc.SetPaymentSettings(ctx, "owner", "currency", "eur"))

		value, err := svc.PaymentSetting(ctx, "currency")
		require.NoError(t, err)
		assert.Equal(t, "eur", value)
	})

	t.Run("operator sets composite reputation", func(t *testing.T) {
		require.NoError(t, svc.SetCompositeReputation(ctx, "operator", "total", 77))

		score, err := svc.CompositeReputation(ctx, "total")
		require.NoError(t, err)
		assert.Equal(t, int64(77), score)
	})

	t.Run("paused blocks writes", func(t *testing.T) {
		require.NoError(t, ctl.Pause("owner"))
		defer func() { require.NoError(t, ctl.Unpause("owner")) }()

		assert.ErrorIs(t, svc.SetProfile(ctx, "owner", "k", "v", "", 0), access.ErrPaused)
		assert.ErrorIs(t, svc.SetCompositeReputation(ctx, "operator", "total", 1), access.ErrPaused)
	})
}

func TestChangeMerchantAccount(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestWallet(t, store, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangeMerchantAccount(ctx, "mallory", "mallory"), access.ErrUnauthorized)
	assert.ErrorIs(t, svc.ChangeMerchantAccount(ctx, "merchant-account", ""), ErrInvalidAccount)

	require.NoError(t, svc.ChangeMerchantAccount(ctx, "merchant-account", "new-account"))

	// The old account no longer controls the wallet.
	assert.ErrorIs(t, svc.ChangeMerchantAccount(ctx, "merchant-account", "x"), access.ErrUnauthorized)
	require.NoError(t, svc.ChangeMerchantAccount(ctx, "new-account", "merchant-account"))
}

func TestChangeFundAddress(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestWallet(t, store, nil)
	ctx := context.Background()

	t.Run("rejects engine-controlled accounts", func(t *testing.T) {
		require.NoError(t, store.Accounts.Create(&models.Account{Address: "some-contract", IsContract: true}))
		assert.ErrorIs(t, svc.ChangeFundAddress(ctx, "merchant-account", "some-contract"), ErrInvalidRecipient)
	})

	t.Run("merchant account only", func(t *testing.T) {
		assert.ErrorIs(t, svc.ChangeFundAddress(ctx, "mallory", "anywhere"), access.ErrUnauthorized)
	})

	t.Run("plain address accepted", func(t *testing.T) {
		require.NoError(t, svc.ChangeFundAddress(ctx, "merchant-account", "cold-storage"))

		w, err := svc.Wallet(ctx)
		require.NoError(t, err)
		assert.Equal(t, "cold-storage", w.FundAddress)
	})
}

func TestWithdrawTo(t *testing.T) {
	store := newTestStore(t)
	svc, ctl := newTestWallet(t, store, nil)
	ctx := context.Background()
	require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 1000))

	t.Run("merchant account withdraws", func(t *testing.T) {
		require.NoError(t, svc.WithdrawTo(ctx, "merchant-account", "bank", 400))

		bank, _ := store.Accounts.Balance("bank")
		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(400), bank)
		assert.Equal(t, int64(600), balance)
	})

	t.Run("validation", func(t *testing.T) {
		assert.ErrorIs(t, svc.WithdrawTo(ctx, "merchant-account", "bank", 0), ErrInvalidAmount)
		assert.ErrorIs(t, svc.WithdrawTo(ctx, "merchant-account", "", 1), ErrInvalidAccount)
		assert.ErrorIs(t, svc.WithdrawTo(ctx, "operator", "bank", 1), access.ErrUnauthorized)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		err := svc.WithdrawTo(ctx, "merchant-account", "bank", 601)
		assert.ErrorIs(t, err, repositories.ErrInsufficientFunds)
	})

	t.Run("paused blocks withdrawal", func(t *testing.T) {
		require.NoError(t, ctl.Pause("owner"))
		defer func() { require.NoError(t, ctl.Unpause("owner")) }()

		assert.ErrorIs(t, svc.WithdrawTo(ctx, "merchant-account", "bank", 1), access.ErrPaused)
	})
}

// recordingProvider captures payout calls and can be told to fail.
type recordingProvider struct {
	calls []int64
	fail  error
}

func (p *recordingProvider) Payout(ctx context.Context, recipient string, amount int64, reference string) error {
	if p.fail != nil {
		return p.fail
	}
	p.calls = append(p.calls, amount)
	return nil
}

func TestWithdrawToExchange(t *testing.T) {
	ctx := context.Background()

	t.Run("books ledger and calls the payout rail", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)
		require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 1000))

		require.NoError(t, svc.WithdrawToExchange(ctx, "merchant-account", "exchange-acct", 250))

		assert.Equal(t, []int64{250}, provider.calls)
		exchange, _ := store.Accounts.Balance("exchange-acct")
		assert.Equal(t, int64(250), exchange)
	})

	t.Run("operator and owner may trigger it", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)
		require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 1000))

		require.NoError(t, svc.WithdrawToExchange(ctx, "operator", "exchange-acct", 100))
		require.NoError(t, svc.WithdrawToExchange(ctx, "owner", "exchange-acct", 100))
		assert.ErrorIs(t, svc.WithdrawToExchange(ctx, "mallory", "exchange-acct", 100), access.ErrUnauthorized)
	})

	t.Run("rejected payout rolls the ledger back", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{fail: errors.New("rail down")}
		svc, _ := newTestWallet(t, store, provider)
		require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 1000))

		err := svc.WithdrawToExchange(ctx, "merchant-account", "exchange-acct", 250)
		require.Error(t, err)

		balance, _ := store.Accounts.Balance("escrow:wallet:m1")
		exchange, _ := store.Accounts.Balance("exchange-acct")
		assert.Equal(t, int64(1000), balance)
		assert.Equal(t, int64(0), exchange)
	})
}

func TestWithdrawAllToExchange(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps the full balance", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)
		require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 731))

		require.NoError(t, svc.WithdrawAllToExchange(ctx, "merchant-account", "exchange-acct", 100))

		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
		assert.Equal(t, []int64{731}, provider.calls)
	})

	t.Run("below the minimum", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)
		require.NoError(t, store.Accounts.Credit("escrow:wallet:m1", 99))

		err := svc.WithdrawAllToExchange(ctx, "merchant-account", "exchange-acct", 100)
		assert.ErrorIs(t, err, ErrBelowMinimum)
		assert.Empty(t, provider.calls)
	})

	t.Run("unauthorized caller fails even on an empty wallet", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)

		err := svc.WithdrawAllToExchange(ctx, "mallory", "exchange-acct", 0)
		assert.ErrorIs(t, err, access.ErrUnauthorized)
		assert.Empty(t, provider.calls)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		store := newTestStore(t)
		provider := &recordingProvider{}
		svc, _ := newTestWallet(t, store, provider)

		err := svc.WithdrawAllToExchange(ctx, "merchant-account", "", 0)
		assert.ErrorIs(t, err, ErrInvalidAccount)
	})
}
