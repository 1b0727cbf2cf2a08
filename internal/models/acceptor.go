package models

import (
	"time"
)

// AcceptorStatus is the lifecycle state of a time-locked payment acceptor.
type AcceptorStatus int

const (
	AcceptorStateInactive AcceptorStatus = iota
	AcceptorStateMerchantAssigned
	AcceptorStateOrderAssigned
	AcceptorStatePaid
	AcceptorStateRefunding
)

func (s AcceptorStatus) String() string {
	switch s {
	case AcceptorStateInactive:
		return "inactive"
	case AcceptorStateMerchantAssigned:
		return "merchant_assigned"
	case AcceptorStateOrderAssigned:
		return "order_assigned"
	case AcceptorStatePaid:
		return "paid"
	case AcceptorStateRefunding:
		return "refunding"
	default:
		return "unknown"
	}
}

// AcceptorState is the persisted state of one time-locked acceptor. An
// acceptor handles a single order at a time and cycles back to
// MerchantAssigned after settlement, so one row is the whole state.
type AcceptorState struct {
	ID            uint           `gorm:"primarykey"`
	AcceptorID    string         `gorm:"uniqueIndex;not null"`
	EscrowAddress string         `gorm:"uniqueIndex;not null"`
	State         AcceptorStatus `gorm:"not null;default:0"`
	MerchantID    string
	OrderID       int64
	Price         int64
	Client        string
	AssignedAt    time.Time
	Lifetime      int64 `gorm:"not null"` // seconds
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
