package repositories

import (
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

// DealRepository is the append-only deal history. Records are never updated
// or deleted.
type DealRepository interface {
	Create(deal *models.Deal) error
	ListByMerchant(merchantID string, limit, offset int) ([]models.Deal, error)
}

type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(deal *models.Deal) error {
	if err := r.db.Create(deal).Error; err != nil {
		return fmt.Errorf("failed to record deal: %w", err)
	}
	return nil
}

func (r *dealRepository) ListByMerchant(merchantID string, limit, offset int) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, nil
}
