// Package reputation is the user-reputation registry: plain keyed records
// maintained by the platform owner. The order processor never calls it; an
// administrative caller drives updates out of band.
package reputation

import (
	"context"
	"errors"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
)

// UserDetails is one entry of a bulk registration or update.
type UserDetails struct {
	Address          string
	Name             string
	StarScore        int64
	ReputationScore  int64
	TrustScore       int64
	SignedDealsCount int64
}

// Service manages reputation-registry records. All mutations are owner-only;
// bulk variants are atomic, a single bad entry aborts the whole batch.
type Service interface {
	User(ctx context.Context, address string) (*models.User, error)
	RegisterUser(ctx context.Context, caller string, details UserDetails) error
	UpdateName(ctx context.Context, caller, address, name string) error
	UpdateStarScore(ctx context.Context, caller, address string, score int64) error
	UpdateReputationScore(ctx context.Context, caller, address string, score int64) error
	UpdateTrustScore(ctx context.Context, caller, address string, score int64) error
	UpdateSignedDealsCount(ctx context.Context, caller, address string, count int64) error
	UpdateUserDetailsInBulk(ctx context.Context, caller string, batch []UserDetails) error
	UpdateTrustScoreInBulk(ctx context.Context, caller string, addresses []string, scores []int64) error
	Control() *access.Control
}

type service struct {
	store   *repositories.Store
	control *access.Control
}

func NewService(store *repositories.Store, control *access.Control) Service {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	return &service{store: store, control: control}
}

func (s *service) User(ctx context.Context, address string) (*models.User, error) {
	user, err := s.store.Users.GetByAddress(address)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) RegisterUser(ctx context.Context, caller string, details UserDetails) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if details.Address == "" {
		return ErrInvalidUser
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		return registerUser(tx, details)
	})
}

func (s *service) UpdateName(ctx context.Context, caller, address, name string) error {
	return s.update(caller, address, func(u *models.User) { u.Name = name })
}

func (s *service) UpdateStarScore(ctx context.Context, caller, address string, score int64) error {
	return s.update(caller, address, func(u *models.User) { u.StarScore = score })
}

func (s *service) UpdateReputationScore(ctx context.Context, caller, address string, score int64) error {
	return s.update(caller, address, func(u *models.User) { u.ReputationScore = score })
}

func (s *service) UpdateTrustScore(ctx context.Context, caller, address string, score int64) error {
	return s.update(caller, address, func(u *models.User) { u.TrustScore = score })
}

func (s *service) UpdateSignedDealsCount(ctx context.Context, caller, address string, count int64) error {
	return s.update(caller, address, func(u *models.User) { u.SignedDealsCount = count })
}

// UpdateUserDetailsInBulk registers or overwrites a batch of records in one
// transaction.
func (s *service) UpdateUserDetailsInBulk(ctx context.Context, caller string, batch []UserDetails) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		for _, details := range batch {
			if details.Address == "" {
				return ErrInvalidUser
			}
			user, err := tx.Users.GetByAddress(details.Address)
			if errors.Is(err, repositories.ErrUserNotFound) {
				if err := registerUser(tx, details); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			user.Name = details.Name
			user.StarScore = details.StarScore
			user.ReputationScore = details.ReputationScore
			user.TrustScore = details.TrustScore
			user.SignedDealsCount = details.SignedDealsCount
			if err := tx.Users.Update(user); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTrustScoreInBulk overwrites trust scores for a batch of addresses in
// one transaction.
func (s *service) UpdateTrustScoreInBulk(ctx context.Context, caller string, addresses []string, scores []int64) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	if len(addresses) == 0 {
		return ErrEmptyBatch
	}
	if len(addresses) != len(scores) {
		return ErrBatchMismatch
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		for i, address := range addresses {
			user, err := tx.Users.GetByAddress(address)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			user.TrustScore = scores[i]
			if err := tx.Users.Update(user); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) Control() *access.Control { return s.control }

func (s *service) update(caller, address string, mutate func(*models.User)) error {
	if err := s.control.RequireOwner(caller); err != nil {
		return err
	}
	return s.store.ExecuteInTransaction(func(tx *repositories.Store) error {
		user, err := tx.Users.GetByAddress(address)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		mutate(user)
		return tx.Users.Update(user)
	})
}

func registerUser(tx *repositories.Store, details UserDetails) error {
	_, err := tx.Users.GetByAddress(details.Address)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}
	return tx.Users.Create(&models.User{
		Address:          details.Address,
		Name:             details.Name,
		StarScore:        details.StarScore,
		ReputationScore:  details.ReputationScore,
		TrustScore:       details.TrustScore,
		SignedDealsCount: details.SignedDealsCount,
	})
}
