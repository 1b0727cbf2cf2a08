package reputation

import (
	"context"
	"errors"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
)

// ClaimService manages claimed-token records alongside the user registry.
// Reads return zero for absent claims; all mutations are owner-only and the
// bulk variants are atomic.
type ClaimService interface {
	ClaimedTokens(ctx context.Context, address string) (int64, error)
	UpdateUserClaim(ctx context.Context, caller, address string, tokens int64) error
	DeleteUserClaim(ctx context.Context, caller, address string) error
	UpdateUserClaimsInBulk(ctx context.Context, caller string, addresses []string, tokens []int64) error
	DeleteUserClaimsInBulk(ctx context.Context, caller string, addresses []string) error
	Control() *access.Control
}

type claimService struct {
	store   *repositories.Store
	control *access.Control
}

func NewClaimService(store *repositories.Store, control *access.Control) ClaimService {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	return &claimService{store: store, control: control}
}

func (s *claimService) ClaimedTokens(ctx context.Context, address string) (int64, error) {
	claim, err := s.store.Claims.GetByAddress(address)
	if err != nil {
		if errors.Is(err, repositories.ErrClaimNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return claim.ClaimedTokens, nil
}

func (s *claimService) UpdateUserClaim(ctx context.Context, caller, address string, tokens int64) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		return upsertClaim(tx, address, tokens)
	})
}

// DeleteUserClaim zeroes the claim; deleting an absent claim is a no-op.
func (s *claimService) DeleteUserClaim(ctx context.Context, caller, address string) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if address == "" {
		return ErrInvalidUser
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		return tx.Claims.Delete(address)
	})
}

// UpdateUserClaimsInBulk overwrites a batch of claims in one transaction.
func (s *claimService) UpdateUserClaimsInBulk(ctx context.Context, caller string, addresses []string, tokens []int64) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if len(addresses) == 0 {
		return ErrEmptyBatch
	}
	if len(addresses) != len(tokens) {
		return ErrBatchMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		for i, address := range addresses {
			if err := upsertClaim(tx, address, tokens[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteUserClaimsInBulk zeroes a batch of claims in one transaction.
func (s *claimService) DeleteUserClaimsInBulk(ctx context.Context, caller string, addresses []string) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if len(addresses) == 0 {
		return ErrEmptyBatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		for _, address := range addresses {
			if address == "" {
				return ErrInvalidUser
			}
			if err := tx.Claims.Delete(address); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *claimService) Control() *access.Control { return s.control }

func upsertClaim(tx *repositories.Store, address string, tokens int64) error {
	if address == "" {
		return ErrInvalidUser
	}
	if tokens < 0 {
		return ErrInvalidClaim
	}
	claim, err := tx.Claims.GetByAddress(address)
	if errors.Is(err, repositories.ErrClaimNotFound) {
		return tx.Claims.Create(&models.UserClaim{Address: address, ClaimedTokens: tokens})
	}
	if err != nil {
		return err
	}
	claim.ClaimedTokens = tokens
	return tx.Claims.Update(claim)
}
