package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

// AcceptorRepository stores the single-order state of time-locked acceptors.
type AcceptorRepository interface {
	Get(acceptorID string) (*models.AcceptorState, error)
	Create(state *models.AcceptorState) error
	Update(state *models.AcceptorState) error
}

type acceptorRepository struct {
	db *gorm.DB
}

func NewAcceptorRepository(db *gorm.DB) AcceptorRepository {
	return &acceptorRepository{db: db}
}

func (r *acceptorRepository) Get(acceptorID string) (*models.AcceptorState, error) {
	var state models.AcceptorState
	if err := r.db.Where("acceptor_id = ?", acceptorID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcceptorNotFound
		}
		return nil, fmt.Errorf("failed to get acceptor: %w", err)
	}
	return &state, nil
}

func (r *acceptorRepository) Create(state *models.AcceptorState) error {
	if err := r.db.Create(state).Error; err != nil {
		return fmt.Errorf("failed to create acceptor: %w", err)
	}
	return nil
}

func (r *acceptorRepository) Update(state *models.AcceptorState) error {
	if err := r.db.Save(state).Error; err != nil {
		return fmt.Errorf("failed to update acceptor: %w", err)
	}
	return nil
}
