// Package gateway implements the settlement gateway. Fee computation happens
// here and nowhere else, so downstream components never re-derive the fee.
package gateway

import (
	"context"
	"log"
	"sync"

	"escrowd/internal/access"
	"escrowd/internal/repositories"
)

type service struct {
	store   *repositories.Store
	control *access.Control
	fees    FeePolicy

	mu    sync.RWMutex
	vault string
}

// NewService creates a settlement gateway paying fees into vault.
func NewService(store *repositories.Store, control *access.Control, vault string, fees FeePolicy) Service {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	if vault == "" {
		panic("vault is required")
	}
	return &service{
		store:   store,
		control: control,
		vault:   vault,
		fees:    fees,
	}
}

func (s *service) AcceptPayment(ctx context.Context, caller, source, destination string, value, fee int64) error {
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		return s.AcceptPaymentTx(tx, caller, source, destination, value, fee)
	})
}

func (s *service) AcceptPaymentTx(tx *repositories.Store, caller, source, destination string, value, fee int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	if value <= 0 {
		return ErrInvalidValue
	}
	if err := s.fees.Check(value, fee); err != nil {
		return err
	}

	if err := tx.Accounts.Debit(source, value); err != nil {
		return err
	}
	if err := tx.Accounts.Credit(destination, value-fee); err != nil {
		return err
	}
	if fee > 0 {
		if err := tx.Accounts.Credit(s.currentVault(), fee); err != nil {
			return err
		}
	}

	log.Printf("gateway: settled %d from %s to %s (fee %d)", value, source, destination, fee)
	return nil
}

func (s *service) ChangeVault(ctx context.Context, caller, vault string) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if vault == "" {
		return ErrInvalidValue
	}
	s.mu.Lock()
	s.vault = vault
	s.mu.Unlock()
	return nil
}

func (s *service) currentVault() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vault
}

func (s *service) Vault() string { return s.currentVault() }

func (s *service) MaxFee(value int64) int64 { return s.fees.MaxFee(value) }

func (s *service) Fees() FeePolicy { return s.fees }

func (s *service) Control() *access.Control { return s.control }
