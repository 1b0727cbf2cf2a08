package acceptor

import (
	"context"
	"testing"
	"time"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
	"escrowd/internal/services/gateway"
	"escrowd/internal/services/history"
	"escrowd/internal/services/processor"
	"escrowd/internal/services/wallet"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testMerchant   = "m1"
	acceptorEscrow = "escrow:acceptor:a1"
	walletEscrow   = "escrow:wallet:m1"
	testOwner      = "owner"
	testOperator   = "operator"
	testClient     = "client"
	testLifetime   = 900 * time.Second
)

type fixture struct {
	store    *repositories.Store
	acceptor Service
	wallet   wallet.Service
	history  history.Service
	control  *access.Control
	now      time.Time
}

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

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newTestStore(t)

	newControl := func(component string) *access.Control {
		ctl, err := access.NewControl(component, testOwner, nil)
		require.NoError(t, err)
		require.NoError(t, ctl.SetOperator(testOwner, acceptorEscrow, true))
		return ctl
	}

	gw := gateway.NewService(store, newControl("gateway"), "vault", gateway.NewFeePolicy(gateway.DefaultFeePermille))
	w, err := wallet.NewService(store, nil, newControl("wallet"), nil, wallet.Config{
		MerchantID:      testMerchant,
		MerchantAccount: "merchant-account",
		EscrowAddress:   walletEscrow,
	})
	require.NoError(t, err)
	h := history.NewService(store, newControl("history"), testMerchant)

	acceptorControl, err := access.NewControl("acceptor", testOwner, nil)
	require.NoError(t, err)
	require.NoError(t, acceptorControl.SetOperator(testOwner, testOperator, true))

	svc, err := NewService(store, acceptorControl, Config{
		AcceptorID:    "a1",
		MerchantID:    testMerchant,
		EscrowAddress: acceptorEscrow,
		Lifetime:      testLifetime,
	}, gw, h, w)
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		acceptor: svc,
		wallet:   w,
		history:  h,
		control:  acceptorControl,
		now:      time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.SetNowFunc(func() time.Time { return f.now })

	require.NoError(t, store.Accounts.Credit(testClient, 5000))
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) assign(t *testing.T) {
	t.Helper()
	require.NoError(t, f.acceptor.AssignOrder(context.Background(), testOperator, 1, 1000))
}

func (f *fixture) balance(t *testing.T, address string) int64 {
	t.Helper()
	balance, err := f.store.Accounts.Balance(address)
	require.NoError(t, err)
	return balance
}

func (f *fixture) state(t *testing.T) *models.AcceptorState {
	t.Helper()
	state, err := f.acceptor.State(context.Background())
	require.NoError(t, err)
	return state
}

func TestAssignOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns and stamps the baseline", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)

		state := f.state(t)
		assert.Equal(t, models.AcceptorStateOrderAssigned, state.State)
		assert.Equal(t, int64(1), state.OrderID)
		assert.Equal(t, int64(1000), state.Price)
		assert.True(t, state.AssignedAt.Equal(f.now))
	})

	t.Run("rejects while an order is held", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)

		err := f.acceptor.AssignOrder(ctx, testOperator, 2, 500)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)

		assert.ErrorIs(t, f.acceptor.AssignOrder(ctx, testOperator, 0, 1000), ErrInvalidOrder)
		assert.ErrorIs(t, f.acceptor.AssignOrder(ctx, testOperator, 1, 0), ErrInvalidAmount)
		assert.ErrorIs(t, f.acceptor.AssignOrder(ctx, "mallory", 1, 1000), access.ErrUnauthorized)
	})
}

func TestAcceptorSecurePay(t *testing.T) {
	ctx := context.Background()

	t.Run("escrows before expiry", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		f.advance(500 * time.Second)

		require.NoError(t, f.acceptor.SecurePay(ctx, testClient, 1000))

		state := f.state(t)
		assert.Equal(t, models.AcceptorStatePaid, state.State)
		assert.Equal(t, testClient, state.Client)
		assert.Equal(t, int64(1000), f.balance(t, acceptorEscrow))
	})

	t.Run("rejects after expiry", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		f.advance(901 * time.Second)

		err := f.acceptor.SecurePay(ctx, testClient, 1000)
		assert.ErrorIs(t, err, ErrOrderExpired)
		assert.Equal(t, int64(0), f.balance(t, acceptorEscrow))
	})

	t.Run("rejects exactly at the deadline", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		f.advance(testLifetime)

		err := f.acceptor.SecurePay(ctx, testClient, 1000)
		assert.ErrorIs(t, err, ErrOrderExpired)
	})

	t.Run("rejects any other amount", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)

		assert.ErrorIs(t, f.acceptor.SecurePay(ctx, testClient, 999), ErrInvalidAmount)
		assert.ErrorIs(t, f.acceptor.SecurePay(ctx, testClient, 1001), ErrInvalidAmount)
	})

	t.Run("rejects paying twice", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		require.NoError(t, f.acceptor.SecurePay(ctx, testClient, 1000))

		err := f.acceptor.SecurePay(ctx, testClient, 1000)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, int64(1000), f.balance(t, acceptorEscrow))
	})
}

func TestPayAndSetClient(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous pay waits for the client", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)

		require.NoError(t, f.acceptor.Pay(ctx, testClient, 1000))
		state := f.state(t)
		assert.Equal(t, models.AcceptorStateOrderAssigned, state.State)
		assert.Empty(t, state.Client)

		require.NoError(t, f.acceptor.SetClient(ctx, testOperator, testClient))
		state = f.state(t)
		assert.Equal(t, models.AcceptorStatePaid, state.State)
		assert.Equal(t, testClient, state.Client)
	})

	t.Run("set client requires escrowed funds", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)

		err := f.acceptor.SetClient(ctx, testOperator, testClient)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("set client is operator-gated", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		require.NoError(t, f.acceptor.Pay(ctx, testClient, 1000))

		assert.ErrorIs(t, f.acceptor.SetClient(ctx, "mallory", testClient), access.ErrUnauthorized)
		assert.ErrorIs(t, f.acceptor.SetClient(ctx, testOperator, ""), ErrInvalidOrder)
	})
}

func TestAcceptorProcessPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.assign(t)
	require.NoError(t, f.acceptor.SecurePay(ctx, testClient, 1000))

	require.NoError(t, f.acceptor.ProcessPayment(ctx, testOperator, 5, 5, "deal-hash"))

	// The fee is derived from the permille cap.
	assert.Equal(t, int64(0), f.balance(t, acceptorEscrow))
	assert.Equal(t, int64(985), f.balance(t, walletEscrow))
	assert.Equal(t, int64(15), f.balance(t, "vault"))

	// The acceptor is ready for the next order.
	state := f.state(t)
	assert.Equal(t, models.AcceptorStateMerchantAssigned, state.State)
	assert.Equal(t, int64(0), state.OrderID)

	deals, err := f.history.Deals(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.True(t, deals[0].Successful)

	// A fresh order can run immediately.
	f.assign(t)
	assert.Equal(t, models.AcceptorStateOrderAssigned, f.state(t).State)
}

func TestAcceptorRefundFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.assign(t)
	require.NoError(t, f.acceptor.SecurePay(ctx, testClient, 1000))

	require.NoError(t, f.acceptor.RefundPayment(ctx, testOperator, 0, -5, "h"))
	assert.Equal(t, models.AcceptorStateRefunding, f.state(t).State)
	assert.Equal(t, int64(1000), f.balance(t, acceptorEscrow))

	// The pull path works while paused.
	require.NoError(t, f.control.Pause(testOwner))
	require.NoError(t, f.acceptor.WithdrawRefund(ctx))

	assert.Equal(t, int64(5000), f.balance(t, testClient))
	assert.Equal(t, int64(0), f.balance(t, acceptorEscrow))
	assert.Equal(t, models.AcceptorStateMerchantAssigned, f.state(t).State)

	// Nothing left to withdraw.
	assert.ErrorIs(t, f.acceptor.WithdrawRefund(ctx), ErrInvalidState)
}

func TestAcceptorCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot cancel before expiry", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		f.advance(500 * time.Second)

		err := f.acceptor.CancelOrder(ctx, testOperator, 0, 0, "h")
		assert.ErrorIs(t, err, ErrOrderNotExpired)
	})

	t.Run("releases an expired order", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		f.advance(901 * time.Second)

		require.NoError(t, f.acceptor.CancelOrder(ctx, testOperator, 0, 0, "h"))
		assert.Equal(t, models.AcceptorStateMerchantAssigned, f.state(t).State)

		deals, err := f.history.Deals(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.False(t, deals[0].Successful)
	})

	t.Run("paid orders cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		require.NoError(t, f.acceptor.SecurePay(ctx, testClient, 1000))
		f.advance(1000 * time.Second)

		err := f.acceptor.CancelOrder(ctx, testOperator, 0, 0, "h")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestSetLifetime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.ErrorIs(t, f.acceptor.SetLifetime(ctx, testOperator, time.Minute), access.ErrUnauthorized)
	assert.ErrorIs(t, f.acceptor.SetLifetime(ctx, testOwner, 0), ErrInvalidOrder)

	require.NoError(t, f.acceptor.SetLifetime(ctx, testOwner, 60*time.Second))
	f.assign(t)
	f.advance(61 * time.Second)

	err := f.acceptor.SecurePay(ctx, testClient, 1000)
	assert.ErrorIs(t, err, ErrOrderExpired)
}

func TestMerchantAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("unassign drops to inactive", func(t *testing.T) {
		require.NoError(t, f.acceptor.UnassignMerchant(ctx, testOperator))
		state := f.state(t)
		assert.Equal(t, models.AcceptorStateInactive, state.State)
		assert.Empty(t, state.MerchantID)

		// No orders without a merchant.
		assert.ErrorIs(t, f.acceptor.AssignOrder(ctx, testOperator, 1, 100), ErrInvalidState)
	})

	t.Run("set merchant is owner-only and identity-checked", func(t *testing.T) {
		assert.ErrorIs(t, f.acceptor.SetMerchant(ctx, testOperator, testMerchant, f.history), access.ErrUnauthorized)

		otherControl, err := access.NewControl("history-other", testOwner, nil)
		require.NoError(t, err)
		otherHistory := history.NewService(f.store, otherControl, "other-merchant")
		assert.ErrorIs(t, f.acceptor.SetMerchant(ctx, testOwner, testMerchant, otherHistory), processor.ErrMerchantMismatch)

		require.NoError(t, f.acceptor.SetMerchant(ctx, testOwner, testMerchant, f.history))
		assert.Equal(t, models.AcceptorStateMerchantAssigned, f.state(t).State)
	})
}

func TestAcceptorPause(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes every entry point", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		require.NoError(t, f.control.Pause(testOwner))

		assert.ErrorIs(t, f.acceptor.SecurePay(ctx, testClient, 1000), access.ErrPaused)
		assert.ErrorIs(t, f.acceptor.Pay(ctx, testClient, 1000), access.ErrPaused)
		assert.ErrorIs(t, f.acceptor.ProcessPayment(ctx, testOperator, 0, 0, "h"), access.ErrPaused)
		assert.ErrorIs(t, f.acceptor.RefundPayment(ctx, testOperator, 0, 0, "h"), access.ErrPaused)
		assert.ErrorIs(t, f.acceptor.CancelOrder(ctx, testOperator, 0, 0, "h"), access.ErrPaused)
		assert.Equal(t, int64(0), f.balance(t, acceptorEscrow))
	})

	t.Run("freezes set client after an anonymous payment", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t)
		require.NoError(t, f.acceptor.Pay(ctx, testClient, 1000))
		require.NoError(t, f.control.Pause(testOwner))

		assert.ErrorIs(t, f.acceptor.SetClient(ctx, testOperator, testClient), access.ErrPaused)
		assert.Equal(t, models.AcceptorStateOrderAssigned, f.state(t).State)
	})
}
