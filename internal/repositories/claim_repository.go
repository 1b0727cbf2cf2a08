package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

// ClaimRepository stores claimed-token records.
type ClaimRepository interface {
	GetByAddress(address string) (*models.UserClaim, error)
	Create(claim *models.UserClaim) error
	Update(claim *models.UserClaim) error
	Delete(address string) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) GetByAddress(address string) (*models.UserClaim, error) {
	var claim models.UserClaim
	if err := r.db.Where("address = ?", address).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return &claim, nil
}

func (r *claimRepository) Create(claim *models.UserClaim) error {
	if err := r.db.Create(claim).Error; err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

func (r *claimRepository) Update(claim *models.UserClaim) error {
	if err := r.db.Save(claim).Error; err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	return nil
}

func (r *claimRepository) Delete(address string) error {
	if err := r.db.Where("address = ?", address).Delete(&models.UserClaim{}).Error; err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	return nil
}
