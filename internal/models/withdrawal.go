package models

import (
	"time"
)

// WithdrawalState tracks the pull-withdrawal lifecycle of a refund.
type WithdrawalState int

const (
	WithdrawalStateNone WithdrawalState = iota
	WithdrawalStatePending
	WithdrawalStateCompleted
)

// Withdrawal is a refund staged for pull-withdrawal. It is created when a
// refund is authorized and consumed exactly once: the state flips to
// Completed in the same transaction that releases the funds, so a second
// pull is always rejected.
type Withdrawal struct {
	ID         uint            `gorm:"primarykey"`
	MerchantID string          `gorm:"uniqueIndex:idx_merchant_withdrawal;not null"`
	OrderID    int64           `gorm:"uniqueIndex:idx_merchant_withdrawal;not null"`
	State      WithdrawalState `gorm:"not null;default:0"`
	Amount     int64           `gorm:"not null"`
	Recipient  string          `gorm:"not null"`
	Reference  string          // uuid, set when the refund is staged
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
