package repositories

import (
	"escrowd/internal/models"
)

// OrderRepository stores order records and their staged refund withdrawals,
// both keyed by (merchantID, orderID).
type OrderRepository interface {
	Get(merchantID string, orderID int64) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error

	GetWithdrawal(merchantID string, orderID int64) (*models.Withdrawal, error)
	CreateWithdrawal(w *models.Withdrawal) error
	UpdateWithdrawal(w *models.Withdrawal) error
}
