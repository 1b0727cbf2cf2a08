package repositories

import (
	"errors"
	"testing"

	"escrowd/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func TestAccountLedger(t *testing.T) {
	store := newTestStore(t)

	t.Run("credit creates missing account", func(t *testing.T) {
		require.NoError(t, store.Accounts.Credit("alice", 100))

		balance, err := store.Accounts.Balance("alice")
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance)
	})

	t.Run("balance of missing account is zero", func(t *testing.T) {
		balance, err := store.Accounts.Balance("nobody")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("debit fails on insufficient funds", func(t *testing.T) {
		require.NoError(t, store.Accounts.Credit("bob", 50))

		err := store.Accounts.Debit("bob", 51)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		balance, err := store.Accounts.Balance("bob")
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("transfer moves the exact amount", func(t *testing.T) {
		require.NoError(t, store.Accounts.Credit("carol", 300))
		require.NoError(t, store.Accounts.Transfer("carol", "dave", 120))

		carol, err := store.Accounts.Balance("carol")
		require.NoError(t, err)
		dave, err := store.Accounts.Balance("dave")
		require.NoError(t, err)
		assert.Equal(t, int64(180), carol)
		assert.Equal(t, int64(120), dave)
	})

	t.Run("transfer fails without funds", func(t *testing.T) {
		err := store.Accounts.Transfer("nobody", "dave", 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestExecuteInTransactionRollsBack(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Accounts.Credit("payer", 1000))

	boom := errors.New("boom")
	err := store.ExecuteInTransaction(func(tx *Store) error {
		if err := tx.Accounts.Transfer("payer", "payee", 400); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	payer, err := store.Accounts.Balance("payer")
	require.NoError(t, err)
	payee, err := store.Accounts.Balance("payee")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), payer)
	assert.Equal(t, int64(0), payee)
}

func TestOrderRepository(t *testing.T) {
	store := newTestStore(t)

	order := &models.Order{
		MerchantID: "m1",
		OrderID:    7,
		State:      models.OrderStateCreated,
		Price:      1000,
		Fee:        15,
	}
	require.NoError(t, store.Orders.Create(order))

	t.Run("round trip", func(t *testing.T) {
		got, err := store.Orders.Get("m1", 7)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStateCreated, got.State)
		assert.Equal(t, int64(1000), got.Price)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := store.Orders.Get("m1", 8)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("duplicate merchant order id rejected", func(t *testing.T) {
		err := store.Orders.Create(&models.Order{MerchantID: "m1", OrderID: 7, Price: 1})
		assert.Error(t, err)
	})

	t.Run("withdrawal round trip", func(t *testing.T) {
		w := &models.Withdrawal{
			MerchantID: "m1",
			OrderID:    7,
			State:      models.WithdrawalStatePending,
			Amount:     1000,
			Recipient:  "client",
			Reference:  "ref-1",
		}
		require.NoError(t, store.Orders.CreateWithdrawal(w))

		got, err := store.Orders.GetWithdrawal("m1", 7)
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatePending, got.State)

		got.State = models.WithdrawalStateCompleted
		require.NoError(t, store.Orders.UpdateWithdrawal(got))

		got, err = store.Orders.GetWithdrawal("m1", 7)
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStateCompleted, got.State)
	})
}
