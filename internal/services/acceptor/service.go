// Package acceptor implements the time-locked payment acceptor: a
// single-order component that bounds how long it can be held busy by an
// abandoned order. After settlement or refund it cycles back to
// MerchantAssigned, ready for the next order.
package acceptor

import (
	"context"
	"errors"
	"sync"
	"time"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
	"escrowd/internal/services/processor"
)

// DefaultLifetime is how long an assigned order may hold the acceptor busy
// before cancelOrder can release it.
const DefaultLifetime = 15 * time.Minute

// Service drives one acceptor instance.
type Service interface {
	State(ctx context.Context) (*models.AcceptorState, error)

	// SetMerchant binds the acceptor to a merchant and its deal history.
	SetMerchant(ctx context.Context, caller, merchantID string, h processor.DealsHistory) error
	// UnassignMerchant drops the acceptor back to Inactive.
	UnassignMerchant(ctx context.Context, caller string) error
	// AssignOrder stamps the lifetime baseline and takes the order.
	AssignOrder(ctx context.Context, caller string, orderID, price int64) error
	// SecurePay escrows exactly the price from the caller before expiry.
	SecurePay(ctx context.Context, caller string, amount int64) error
	// Pay escrows the price without identifying the client; SetClient
	// completes the payment.
	Pay(ctx context.Context, caller string, amount int64) error
	SetClient(ctx context.Context, caller, client string) error
	ProcessPayment(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error
	RefundPayment(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error
	// WithdrawRefund is the pull path; available while paused.
	WithdrawRefund(ctx context.Context) error
	// CancelOrder releases an abandoned order, only after its lifetime.
	CancelOrder(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error

	SetLifetime(ctx context.Context, caller string, lifetime time.Duration) error
	// SetNowFunc overrides the clock, for deterministic expiry tests.
	SetNowFunc(now func() time.Time)
	Control() *access.Control
}

type service struct {
	store   *repositories.Store
	control *access.Control
	gateway processor.Gateway
	wallet  processor.MerchantWallet

	mu      sync.RWMutex
	history processor.DealsHistory

	acceptorID    string
	escrowAddress string
	nowFn         func() time.Time
}

// Config carries acceptor construction parameters.
type Config struct {
	AcceptorID    string
	MerchantID    string
	EscrowAddress string
	Lifetime      time.Duration
}

// NewService creates (or restores) a time-locked acceptor. A fresh acceptor
// starts in MerchantAssigned when a merchant id is supplied, Inactive
// otherwise.
func NewService(store *repositories.Store, control *access.Control, cfg Config, gw processor.Gateway, h processor.DealsHistory, w processor.MerchantWallet) (Service, error) {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	if gw == nil {
		panic("gateway is required")
	}

	s := &service{
		store:         store,
		control:       control,
		gateway:       gw,
		wallet:        w,
		history:       h,
		acceptorID:    cfg.AcceptorID,
		escrowAddress: cfg.EscrowAddress,
		nowFn:         time.Now,
	}

	err := store.ExecuteInTransaction(func(tx *repositories.Store) error {
		_, err := tx.Acceptors.Get(cfg.AcceptorID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrAcceptorNotFound) {
			return err
		}
		if err := tx.Accounts.Create(&models.Account{Address: cfg.EscrowAddress, IsContract: true}); err != nil {
			return err
		}
		state := models.AcceptorStateInactive
		if cfg.MerchantID != "" {
			state = models.AcceptorStateMerchantAssigned
		}
		return tx.Acceptors.Create(&models.AcceptorState{
			AcceptorID:    cfg.AcceptorID,
			EscrowAddress: cfg.EscrowAddress,
			State:         state,
			MerchantID:    cfg.MerchantID,
			Lifetime:      int64(cfg.Lifetime / time.Second),
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.nowFn = time.Now
		return
	}
	s.nowFn = now
}

func (s *service) State(ctx context.Context) (*models.AcceptorState, error) {
	return s.store.Acceptors.Get(s.acceptorID)
}

func (s *service) SetMerchant(ctx context.Context, caller, merchantID string, h processor.DealsHistory) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if h != nil && h.MerchantID() != merchantID {
		return processor.ErrMerchantMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		state.MerchantID = merchantID
		state.State = models.AcceptorStateMerchantAssigned
		if err := tx.Acceptors.Update(state); err != nil {
			return err
		}
		s.mu.Lock()
		s.history = h
		s.mu.Unlock()
		return nil
	})
}

func (s *service) UnassignMerchant(ctx context.Context, caller string) error {
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		state.MerchantID = ""
		state.State = models.AcceptorStateInactive
		return tx.Acceptors.Update(state)
	})
}

func (s *service) AssignOrder(ctx context.Context, caller string, orderID, price int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	if orderID <= 0 {
		return ErrInvalidOrder
	}
	if price <= 0 {
		return ErrInvalidAmount
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStateMerchantAssigned {
			return ErrInvalidState
		}
		state.OrderID = orderID
		state.Price = price
		state.Client = ""
		state.AssignedAt = s.nowFn()
		state.State = models.AcceptorStateOrderAssigned
		return tx.Acceptors.Update(state)
	})
}

func (s *service) SecurePay(ctx context.Context, caller string, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := s.escrowPayment(tx, caller, amount)
		if err != nil {
			return err
		}
		state.Client = caller
		state.State = models.AcceptorStatePaid
		return tx.Acceptors.Update(state)
	})
}

func (s *service) Pay(ctx context.Context, caller string, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := s.escrowPayment(tx, caller, amount)
		if err != nil {
			return err
		}
		// the client is unknown until SetClient confirms the payer
		return tx.Acceptors.Update(state)
	})
}

// escrowPayment validates the time lock and the exact amount, then moves the
// price into escrow.
func (s *service) escrowPayment(tx *repositories.Store, caller string, amount int64) (*models.AcceptorState, error) {
	state, err := tx.Acceptors.Get(s.acceptorID)
	if err != nil {
		return nil, err
	}
	if state.State != models.AcceptorStateOrderAssigned {
		return nil, ErrInvalidState
	}
	if s.expired(state) {
		return nil, ErrOrderExpired
	}
	if amount != state.Price {
		return nil, ErrInvalidAmount
	}
	if err := tx.Accounts.Transfer(caller, s.escrowAddress, amount); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) SetClient(ctx context.Context, caller, client string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	if client == "" {
		return ErrInvalidOrder
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStateOrderAssigned {
			return ErrInvalidState
		}
		balance, err := tx.Accounts.Balance(s.escrowAddress)
		if err != nil {
			return err
		}
		if balance < state.Price {
			return ErrInvalidAmount
		}
		state.Client = client
		state.State = models.AcceptorStatePaid
		return tx.Acceptors.Update(state)
	})
}

func (s *service) ProcessPayment(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	if s.wallet == nil {
		return processor.ErrMerchantMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStatePaid {
			return ErrInvalidState
		}
		if s.wallet.MerchantID() != state.MerchantID {
			return processor.ErrMerchantMismatch
		}
		destination, err := s.wallet.DestinationAddressTx(tx)
		if err != nil {
			return err
		}
		fee := s.gateway.Fees().MaxFee(state.Price)
		if err := s.gateway.AcceptPaymentTx(tx, s.escrowAddress, s.escrowAddress, destination, state.Price, fee); err != nil {
			return err
		}
		if err := s.recordOutcome(tx, state, dealHash, clientRep, merchantRep, true); err != nil {
			return err
		}
		s.releaseOrder(state)
		return tx.Acceptors.Update(state)
	})
}

func (s *service) RefundPayment(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStatePaid {
			return ErrInvalidState
		}
		if err := s.recordOutcome(tx, state, dealHash, clientRep, merchantRep, false); err != nil {
			return err
		}
		state.State = models.AcceptorStateRefunding
		return tx.Acceptors.Update(state)
	})
}

func (s *service) WithdrawRefund(ctx context.Context) error {
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStateRefunding {
			return ErrInvalidState
		}
		if err := tx.Accounts.Transfer(s.escrowAddress, state.Client, state.Price); err != nil {
			return err
		}
		s.releaseOrder(state)
		return tx.Acceptors.Update(state)
	})
}

func (s *service) CancelOrder(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		if state.State != models.AcceptorStateOrderAssigned {
			return ErrInvalidState
		}
		if !s.expired(state) {
			return ErrOrderNotExpired
		}
		if err := s.recordOutcome(tx, state, dealHash, clientRep, merchantRep, false); err != nil {
			return err
		}
		s.releaseOrder(state)
		return tx.Acceptors.Update(state)
	})
}

func (s *service) SetLifetime(ctx context.Context, caller string, lifetime time.Duration) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if lifetime <= 0 {
		return ErrInvalidOrder
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		state, err := tx.Acceptors.Get(s.acceptorID)
		if err != nil {
			return err
		}
		state.Lifetime = int64(lifetime / time.Second)
		return tx.Acceptors.Update(state)
	})
}

func (s *service) Control() *access.Control { return s.control }

func (s *service) expired(state *models.AcceptorState) bool {
	deadline := state.AssignedAt.Add(time.Duration(state.Lifetime) * time.Second)
	return !s.nowFn().Before(deadline)
}

// releaseOrder cycles the acceptor back to MerchantAssigned for the next
// order.
func (s *service) releaseOrder(state *models.AcceptorState) {
	state.OrderID = 0
	state.Price = 0
	state.Client = ""
	state.State = models.AcceptorStateMerchantAssigned
}

func (s *service) recordOutcome(tx *repositories.Store, state *models.AcceptorState, dealHash string, clientRep, merchantRep int64, successful bool) error {
	if s.wallet != nil {
		if err := s.wallet.SetCompositeReputationTx(tx, s.escrowAddress, "total", merchantRep); err != nil {
			return err
		}
	}
	if h := s.currentHistory(); h != nil {
		if err := h.RecordDealTx(tx, s.escrowAddress, state.OrderID, dealHash, clientRep, merchantRep, successful, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) currentHistory() processor.DealsHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}
