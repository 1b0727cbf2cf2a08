package models

import (
	"time"
)

// OrderState is the lifecycle state of an order held by a payment processor.
type OrderState int

const (
	OrderStateNull OrderState = iota
	OrderStateCreated
	OrderStatePaid
	OrderStateFinalized
	OrderStateRefunding
	OrderStateRefunded
	OrderStateCancelled
)

func (s OrderState) String() string {
	switch s {
	case OrderStateNull:
		return "null"
	case OrderStateCreated:
		return "created"
	case OrderStatePaid:
		return "paid"
	case OrderStateFinalized:
		return "finalized"
	case OrderStateRefunding:
		return "refunding"
	case OrderStateRefunded:
		return "refunded"
	case OrderStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is a single escrowed order. Orders are never deleted; finished orders
// stay as the audit trail.
type Order struct {
	ID         uint       `gorm:"primarykey"`
	MerchantID string     `gorm:"uniqueIndex:idx_merchant_order;not null"`
	OrderID    int64      `gorm:"uniqueIndex:idx_merchant_order;not null"`
	State      OrderState `gorm:"not null;default:0"`
	Price      int64      `gorm:"not null"`
	Fee        int64      `gorm:"not null;default:0"`
	Client     string     // principal that paid, set on secure pay
	Acceptor   string     `gorm:"not null"` // principal allowed to pay
	Origin     string     `gorm:"not null"` // principal entitled to refunds
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
