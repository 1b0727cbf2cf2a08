package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Get(merchantID string, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("merchant_id = ? AND order_id = ?", merchantID, orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) Update(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetWithdrawal(merchantID string, orderID int64) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Where("merchant_id = ? AND order_id = ?", merchantID, orderID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &w, nil
}

func (r *orderRepository) CreateWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Create(w).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Save(w).Error; err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}
	return nil
}
