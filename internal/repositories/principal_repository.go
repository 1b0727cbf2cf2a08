package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

// PrincipalRepository stores authenticatable API identities.
type PrincipalRepository interface {
	GetByAddress(address string) (*models.Principal, error)
	Create(p *models.Principal) error
	Update(p *models.Principal) error
}

type principalRepository struct {
	db *gorm.DB
}

func NewPrincipalRepository(db *gorm.DB) PrincipalRepository {
	return &principalRepository{db: db}
}

func (r *principalRepository) GetByAddress(address string) (*models.Principal, error) {
	var p models.Principal
	if err := r.db.Where("address = ?", address).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}
	return &p, nil
}

func (r *principalRepository) Create(p *models.Principal) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create principal: %w", err)
	}
	return nil
}

func (r *principalRepository) Update(p *models.Principal) error {
	if err := r.db.Save(p).Error; err != nil {
		return fmt.Errorf("failed to update principal: %w", err)
	}
	return nil
}
