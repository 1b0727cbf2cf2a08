// Package wallet implements the merchant custody wallet. The wallet's
// balance is unescrowed value held at its contract account; payouts leave
// through the merchant-controlled fund address or the exchange rail.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
	"escrowd/internal/services/payout"

	"github.com/google/uuid"
)

// ReputationCategoryTotal is the category settlements write into.
const ReputationCategoryTotal = "total"

type service struct {
	store    *repositories.Store
	cache    Cache
	control  *access.Control
	provider payout.Provider

	merchantID    string
	escrowAddress string
}

// Config carries wallet construction parameters.
type Config struct {
	MerchantID      string
	MerchantAccount string
	EscrowAddress   string
	FundAddress     string
}

// NewService creates (or restores) a merchant custody wallet. The escrow
// account is registered as a contract account so nothing can route payouts
// back into engine-controlled logic.
func NewService(store *repositories.Store, cache Cache, control *access.Control, provider payout.Provider, cfg Config) (Service, error) {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	if cfg.MerchantID == "" || cfg.MerchantAccount == "" || cfg.EscrowAddress == "" {
		return nil, ErrInvalidAccount
	}
	if provider == nil {
		provider = payout.NoopProvider{}
	}

	s := &service{
		store:         store,
		cache:         cache,
		control:       control,
		provider:      provider,
		merchantID:    cfg.MerchantID,
		escrowAddress: cfg.EscrowAddress,
	}

	err := store.ExecuteInTransaction(func(tx *repositories.Store) error {
		_, err := tx.Wallets.GetByMerchantID(cfg.MerchantID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrWalletNotFound) {
			return err
		}
		if err := tx.Accounts.Create(&models.Account{Address: cfg.EscrowAddress, IsContract: true}); err != nil {
			return err
		}
		return tx.Wallets.Create(&models.MerchantWallet{
			MerchantID:      cfg.MerchantID,
			EscrowAddress:   cfg.EscrowAddress,
			MerchantAccount: cfg.MerchantAccount,
			FundAddress:     cfg.FundAddress,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init wallet: %w", err)
	}
	return s, nil
}

func (s *service) MerchantID() string { return s.merchantID }

func (s *service) Wallet(ctx context.Context) (*models.MerchantWallet, error) {
	if s.cache != nil {
		if w, err := s.cache.GetWallet(ctx, s.merchantID); err == nil && w != nil {
			return w, nil
		}
	}
	w, err := s.store.Wallets.GetByMerchantID(s.merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.CacheWallet(ctx, w)
	}
	return w, nil
}

func (s *service) Balance(ctx context.Context) (int64, error) {
	return s.store.Accounts.Balance(s.escrowAddress)
}

func (s *service) DestinationAddress(ctx context.Context) (string, error) {
	return s.DestinationAddressTx(s.store)
}

func (s *service) DestinationAddressTx(tx *repositories.Store) (string, error) {
	w, err := tx.Wallets.GetByMerchantID(s.merchantID)
	if err != nil {
		return "", err
	}
	if w.FundAddress != "" {
		return w.FundAddress, nil
	}
	return w.EscrowAddress, nil
}

func (s *service) SetProfile(ctx context.Context, caller, key, value, repCategory string, repValue int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		if err := tx.Wallets.UpsertProfile(s.merchantID, key, value); err != nil {
			return err
		}
		if repCategory != "" {
			return tx.Wallets.UpsertReputation(s.merchantID, repCategory, repValue)
		}
		return nil
	})
}

func (s *service) SetPaymentSettings(ctx context.Context, caller, key, value string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	return s.store.Wallets.UpsertSetting(s.merchantID, key, value)
}

func (s *service) Profile(ctx context.Context, key string) (string, error) {
	return s.store.Wallets.GetProfile(s.merchantID, key)
}

func (s *service) PaymentSetting(ctx context.Context, key string) (string, error) {
	return s.store.Wallets.GetSetting(s.merchantID, key)
}

func (s *service) SetCompositeReputation(ctx context.Context, caller, category string, value int64) error {
	return s.SetCompositeReputationTx(s.store, caller, category, value)
}

func (s *service) SetCompositeReputationTx(tx *repositories.Store, caller, category string, value int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	return tx.Wallets.UpsertReputation(s.merchantID, category, value)
}

func (s *service) CompositeReputation(ctx context.Context, category string) (int64, error) {
	return s.store.Wallets.GetReputation(s.merchantID, category)
}

func (s *service) ChangeMerchantAccount(ctx context.Context, caller, newAccount string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if newAccount == "" {
		return ErrInvalidAccount
	}
	err := s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		w, err := tx.Wallets.GetByMerchantID(s.merchantID)
		if err != nil {
			return err
		}
		if caller != w.MerchantAccount {
			return access.ErrUnauthorized
		}
		w.MerchantAccount = newAccount
		return tx.Wallets.Update(w)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) ChangeFundAddress(ctx context.Context, caller, newAddress string) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if newAddress == "" {
		return ErrInvalidAccount
	}
	err := s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		w, err := tx.Wallets.GetByMerchantID(s.merchantID)
		if err != nil {
			return err
		}
		if caller != w.MerchantAccount {
			return access.ErrUnauthorized
		}
		account, err := tx.Accounts.Get(newAddress)
		if err == nil && account.IsContract {
			return ErrInvalidRecipient
		}
		if err != nil && !errors.Is(err, repositories.ErrAccountNotFound) {
			return err
		}
		w.FundAddress = newAddress
		return tx.Wallets.Update(w)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) WithdrawTo(ctx context.Context, caller, recipient string, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if recipient == "" {
		return ErrInvalidAccount
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		w, err := tx.Wallets.GetByMerchantID(s.merchantID)
		if err != nil {
			return err
		}
		if caller != w.MerchantAccount {
			return access.ErrUnauthorized
		}
		return tx.Accounts.Transfer(s.escrowAddress, recipient, amount)
	})
}

func (s *service) WithdrawToExchange(ctx context.Context, caller, recipient string, amount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.withdrawExchange(ctx, caller, recipient, amount)
}

func (s *service) WithdrawAllToExchange(ctx context.Context, caller, recipient string, minAmount int64) error {
	if err := s.control.RequireNotPaused(); err != nil {
		return err
	}
	if recipient == "" {
		return ErrInvalidAccount
	}
	w, err := s.store.Wallets.GetByMerchantID(s.merchantID)
	if err != nil {
		return err
	}
	if caller != w.MerchantAccount && !s.control.IsOperator(caller) && caller != s.control.Owner() {
		return access.ErrUnauthorized
	}
	balance, err := s.Balance(ctx)
	if err != nil {
		return err
	}
	if balance < minAmount {
		return ErrBelowMinimum
	}
	if balance == 0 {
		return nil
	}
	return s.withdrawExchange(ctx, caller, recipient, balance)
}

// withdrawExchange books the ledger side of an exchange withdrawal and hands
// the amount to the payout rail inside the same transaction, so a rejected
// payout rolls the ledger back.
func (s *service) withdrawExchange(ctx context.Context, caller, recipient string, amount int64) error {
	if recipient == "" {
		return ErrInvalidAccount
	}
	reference := uuid.NewString()
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		w, err := tx.Wallets.GetByMerchantID(s.merchantID)
		if err != nil {
			return err
		}
		if caller != w.MerchantAccount && !s.control.IsOperator(caller) && caller != s.control.Owner() {
			return access.ErrUnauthorized
		}
		if err := tx.Accounts.Transfer(s.escrowAddress, recipient, amount); err != nil {
			return err
		}
		return s.provider.Payout(ctx, recipient, amount, reference)
	})
}

func (s *service) Control() *access.Control { return s.control }

func (s *service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, s.merchantID)
	}
}
