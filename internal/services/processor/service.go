// Package processor implements the order-lifecycle state machine. Each
// service instance is bound to one merchant; every operation runs as a
// single store transaction, so a failed precondition leaves no trace.
//
// Refunds use the pull pattern: RefundPayment stages a Pending withdrawal
// and WithdrawRefund flips it to Completed in the same transaction that
// releases the funds, so a second pull is structurally impossible.
package processor

import (
	"context"
	"errors"
	"log"
	"sync"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	store   *repositories.Store
	control *access.Control

	merchantID    string
	escrowAddress string

	mu      sync.RWMutex
	gateway Gateway
	history DealsHistory
	wallet  MerchantWallet
}

// Config carries processor construction parameters.
type Config struct {
	MerchantID    string
	EscrowAddress string
}

// NewService creates an order processor for one merchant. Both collaborators
// must be configured for the same merchant identity.
func NewService(store *repositories.Store, control *access.Control, cfg Config, gw Gateway, h DealsHistory, w MerchantWallet) (Service, error) {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	if gw == nil {
		panic("gateway is required")
	}
	if h != nil && h.MerchantID() != cfg.MerchantID {
		return nil, ErrMerchantMismatch
	}
	if w != nil && w.MerchantID() != cfg.MerchantID {
		return nil, ErrMerchantMismatch
	}

	s := &service{
		store:         store,
		control:       control,
		merchantID:    cfg.MerchantID,
		escrowAddress: cfg.EscrowAddress,
		gateway:       gw,
		history:       h,
		wallet:        w,
	}

	err := store.ExecuteInTransaction(func(tx *repositories.Store) error {
		_, err := tx.Accounts.Get(cfg.EscrowAddress)
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return tx.Accounts.Create(&models.Account{Address: cfg.EscrowAddress, IsContract: true})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) MerchantID() string    { return s.merchantID }
func (s *service) EscrowAddress() string { return s.escrowAddress }

func (s *service) Order(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.store.Orders.Get(s.merchantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *service) AddOrder(ctx context.Context, caller string, orderID, price int64, acceptor, origin string, fee int64) error {
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
	if err := s.currentGateway().Fees().CheckExplicit(price, fee); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		_, err := tx.Orders.Get(s.merchantID, orderID)
		if err == nil {
			return ErrOrderExists
		}
		if !errors.Is(err, repositories.ErrOrderNotFound) {
			return err
		}
		return tx.Orders.Create(&models.Order{
			MerchantID: s.merchantID,
			OrderID:    orderID,
			State:      models.OrderStateCreated,
			Price:      price,
			Fee:        fee,
			Acceptor:   acceptor,
			Origin:     origin,
		})
	})
}

func (s *service) SecurePay(ctx context.Context, caller string, orderID, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		order, err := s.getOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.State != models.OrderStateCreated {
			return ErrInvalidState
		}
		if caller != order.Acceptor {
			return access.ErrUnauthorized
		}
		if amount != order.Price {
			return ErrInvalidAmount
		}
		if err := tx.Accounts.Transfer(caller, s.escrowAddress, order.Price); err != nil {
			return err
		}
		order.Client = caller
		order.State = models.OrderStatePaid
		return tx.Orders.Update(order)
	})
}

func (s *service) ProcessPayment(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	gw, h, w := s.collaborators()
	if w == nil || w.MerchantID() != s.merchantID {
		return ErrMerchantMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		order, err := s.getOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.State != models.OrderStatePaid {
			return ErrInvalidState
		}
		destination, err := w.DestinationAddressTx(tx)
		if err != nil {
			return err
		}
		if err := gw.AcceptPaymentTx(tx, s.escrowAddress, s.escrowAddress, destination, order.Price, order.Fee); err != nil {
			return err
		}
		if err := s.recordOutcome(tx, h, w, orderID, dealHash, clientRep, merchantRep, true, ""); err != nil {
			return err
		}
		order.State = models.OrderStateFinalized
		return tx.Orders.Update(order)
	})
}

func (s *service) RefundPayment(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash, note string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	_, h, w := s.collaborators()
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		order, err := s.getOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.State != models.OrderStatePaid {
			return ErrInvalidState
		}
		if err := tx.Orders.CreateWithdrawal(&models.Withdrawal{
			MerchantID: s.merchantID,
			OrderID:    orderID,
			State:      models.WithdrawalStatePending,
			Amount:     order.Price,
			Recipient:  order.Origin,
			Reference:  uuid.NewString(),
		}); err != nil {
			return err
		}
		if err := s.recordOutcome(tx, h, w, orderID, dealHash, clientRep, merchantRep, false, note); err != nil {
			return err
		}
		order.State = models.OrderStateRefunding
		return tx.Orders.Update(order)
	})
}

// WithdrawRefund stays available while paused so clients are never locked
// out of funds already earmarked for them.
func (s *service) WithdrawRefund(ctx context.Context, orderID int64) error {
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		w, err := tx.Orders.GetWithdrawal(s.merchantID, orderID)
		if err != nil {
			if errors.Is(err, repositories.ErrWithdrawalNotFound) {
				return ErrInvalidState
			}
			return err
		}
		if w.State != models.WithdrawalStatePending {
			return ErrAlreadyWithdrawn
		}
		w.State = models.WithdrawalStateCompleted
		if err := tx.Orders.UpdateWithdrawal(w); err != nil {
			return err
		}
		if err := tx.Accounts.Transfer(s.escrowAddress, w.Recipient, w.Amount); err != nil {
			return err
		}

		order, err := tx.Orders.Get(s.merchantID, orderID)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			// direct refunds have no order record
			return nil
		}
		if err != nil {
			return err
		}
		if order.State == models.OrderStateRefunding {
			order.State = models.OrderStateRefunded
			return tx.Orders.Update(order)
		}
		return nil
	})
}

func (s *service) CancelOrder(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash, note string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	_, h, w := s.collaborators()
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		order, err := s.getOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.State != models.OrderStateCreated {
			return ErrInvalidState
		}
		if err := s.recordOutcome(tx, h, w, orderID, dealHash, clientRep, merchantRep, false, note); err != nil {
			return err
		}
		order.State = models.OrderStateCancelled
		return tx.Orders.Update(order)
	})
}

func (s *service) PayForOrder(ctx context.Context, caller string, orderID int64, origin string, fee, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if orderID <= 0 {
		return ErrInvalidOrder
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	gw, _, w := s.collaborators()
	if w == nil || w.MerchantID() != s.merchantID {
		return ErrMerchantMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		destination, err := w.DestinationAddressTx(tx)
		if err != nil {
			return err
		}
		if err := tx.Accounts.Transfer(caller, s.escrowAddress, amount); err != nil {
			return err
		}
		if err := gw.AcceptPaymentTx(tx, s.escrowAddress, s.escrowAddress, destination, amount, fee); err != nil {
			return err
		}
		log.Printf("processor %s: order %d paid directly by %s (origin %s)", s.merchantID, orderID, caller, origin)
		return nil
	})
}

func (s *service) RefundDirect(ctx context.Context, caller string, orderID int64, clientAddress, note string, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	if orderID <= 0 {
		return ErrInvalidOrder
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		_, err := tx.Orders.GetWithdrawal(s.merchantID, orderID)
		if err == nil {
			return ErrInvalidState
		}
		if !errors.Is(err, repositories.ErrWithdrawalNotFound) {
			return err
		}
		// the refund is funded by the calling operator
		if err := tx.Accounts.Transfer(caller, s.escrowAddress, amount); err != nil {
			return err
		}
		return tx.Orders.CreateWithdrawal(&models.Withdrawal{
			MerchantID: s.merchantID,
			OrderID:    orderID,
			State:      models.WithdrawalStatePending,
			Amount:     amount,
			Recipient:  clientAddress,
			Reference:  uuid.NewString(),
		})
	})
}

func (s *service) SetGateway(caller string, gw Gateway) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	s.mu.Lock()
	s.gateway = gw
	s.mu.Unlock()
	return nil
}

func (s *service) SetDealsHistory(caller string, h DealsHistory) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if h == nil || h.MerchantID() != s.merchantID {
		return ErrMerchantMismatch
	}
	s.mu.Lock()
	s.history = h
	s.mu.Unlock()
	return nil
}

func (s *service) SetWallet(caller string, w MerchantWallet) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if w == nil || w.MerchantID() != s.merchantID {
		return ErrMerchantMismatch
	}
	s.mu.Lock()
	s.wallet = w
	s.mu.Unlock()
	return nil
}

func (s *service) Control() *access.Control { return s.control }

func (s *service) getOrder(tx *repositories.Store, orderID int64) (*models.Order, error) {
	order, err := tx.Orders.Get(s.merchantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// recordOutcome writes the reputation delta and the deal audit record.
// Settlement, reputation and history commit together or not at all.
func (s *service) recordOutcome(tx *repositories.Store, h DealsHistory, w MerchantWallet, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error {
	if w != nil {
		if err := w.SetCompositeReputationTx(tx, s.escrowAddress, "total", merchantRep); err != nil {
			return err
		}
	}
	if h != nil {
		if err := h.RecordDealTx(tx, s.escrowAddress, orderID, dealHash, clientRep, merchantRep, successful, note); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) collaborators() (Gateway, DealsHistory, MerchantWallet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gateway, s.history, s.wallet
}

func (s *service) currentGateway() Gateway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gateway
}
