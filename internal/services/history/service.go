// Package history is the append-only deal record keyed by merchant identity.
// Processors consult its merchant identifier before trusting it with
// settlement records.
package history

import (
	"context"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"

	"github.com/google/uuid"
)

// Service records deal outcomes for one merchant.
type Service interface {
	MerchantID() string
	RecordDeal(ctx context.Context, caller string, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error
	RecordDealTx(tx *repositories.Store, caller string, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error
	Deals(ctx context.Context, limit, offset int) ([]models.Deal, error)
	Control() *access.Control
}

type service struct {
	store      *repositories.Store
	control    *access.Control
	merchantID string
}

func NewService(store *repositories.Store, control *access.Control, merchantID string) Service {
	if store == nil {
		panic("store is required")
	}
	if control == nil {
		panic("control is required")
	}
	return &service{
		store:      store,
		control:    control,
		merchantID: merchantID,
	}
}

func (s *service) MerchantID() string { return s.merchantID }

func (s *service) RecordDeal(ctx context.Context, caller string, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error {
	return s.RecordDealTx(s.store, caller, orderID, dealHash, clientRep, merchantRep, successful, note)
}

func (s *service) RecordDealTx(tx *repositories.Store, caller string, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error {
	if err := s.control.RequireOperator(caller); err != nil {
		return err
	}
	return tx.Deals.Create(&models.Deal{
		Reference:          uuid.NewString(),
		MerchantID:         s.merchantID,
		OrderID:            orderID,
		DealHash:           dealHash,
		ClientReputation:   clientRep,
		MerchantReputation: merchantRep,
		Successful:         successful,
		Note:               note,
	})
}

func (s *service) Deals(ctx context.Context, limit, offset int) ([]models.Deal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Deals.ListByMerchant(s.merchantID, limit, offset)
}

func (s *service) Control() *access.Control { return s.control }
