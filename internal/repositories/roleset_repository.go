package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

// RoleSetRepository persists per-component role state so access control
// survives restarts. It satisfies access.Store.
type RoleSetRepository interface {
	Load(component string) (*models.RoleSet, []models.RoleOperator, error)
	Save(rs *models.RoleSet) error
	SetOperator(component, address string, enabled bool) error
}

type roleSetRepository struct {
	db *gorm.DB
}

func NewRoleSetRepository(db *gorm.DB) RoleSetRepository {
	return &roleSetRepository{db: db}
}

func (r *roleSetRepository) Load(component string) (*models.RoleSet, []models.RoleOperator, error) {
	var rs models.RoleSet
	err := r.db.Where("component = ?", component).First(&rs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load role set: %w", err)
	}

	var operators []models.RoleOperator
	if err := r.db.Where("component = ?", component).Find(&operators).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load operators: %w", err)
	}
	return &rs, operators, nil
}

func (r *roleSetRepository) Save(rs *models.RoleSet) error {
	var existing models.RoleSet
	err := r.db.Where("component = ?", rs.Component).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(rs).Error; err != nil {
			return fmt.Errorf("failed to create role set: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load role set: %w", err)
	}
	existing.Owner = rs.Owner
	existing.Paused = rs.Paused
	if err := r.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to save role set: %w", err)
	}
	return nil
}

func (r *roleSetRepository) SetOperator(component, address string, enabled bool) error {
	if !enabled {
		err := r.db.Where("component = ? AND address = ?", component, address).
			Delete(&models.RoleOperator{}).Error
		if err != nil {
			return fmt.Errorf("failed to remove operator: %w", err)
		}
		return nil
	}

	var op models.RoleOperator
	err := r.db.Where("component = ? AND address = ?", component, address).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		op = models.RoleOperator{Component: component, Address: address}
		if err := r.db.Create(&op).Error; err != nil {
			return fmt.Errorf("failed to add operator: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load operator: %w", err)
	}
	return nil
}
