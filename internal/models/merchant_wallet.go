package models

import (
	"time"
)

// MerchantWallet is a merchant's custody record. The wallet's balance is the
// ledger account at EscrowAddress; the row itself carries the controlling
// principal and payout routing.
type MerchantWallet struct {
	ID              uint   `gorm:"primarykey"`
	MerchantID      string `gorm:"uniqueIndex;not null"`
	EscrowAddress   string `gorm:"uniqueIndex;not null"` // contract account holding the balance
	MerchantAccount string `gorm:"not null"`             // controlling principal, mutable only by itself
	FundAddress     string // payout target, optional, never a contract account
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WalletProfile is a merchant profile entry, last-write-wins per key.
type WalletProfile struct {
	ID         uint   `gorm:"primarykey"`
	MerchantID string `gorm:"uniqueIndex:idx_wallet_profile;not null"`
	Key        string `gorm:"uniqueIndex:idx_wallet_profile;not null"`
	Value      string
	UpdatedAt  time.Time
}

// WalletSetting is a merchant payment-settings entry, last-write-wins per key.
type WalletSetting struct {
	ID         uint   `gorm:"primarykey"`
	MerchantID string `gorm:"uniqueIndex:idx_wallet_setting;not null"`
	Key        string `gorm:"uniqueIndex:idx_wallet_setting;not null"`
	Value      string
	UpdatedAt  time.Time
}

// WalletReputation is a composite reputation score per category,
// last-write-wins. No historical aggregation is kept.
type WalletReputation struct {
	ID         uint   `gorm:"primarykey"`
	MerchantID string `gorm:"uniqueIndex:idx_wallet_reputation;not null"`
	Category   string `gorm:"uniqueIndex:idx_wallet_reputation;not null"`
	Score      int64  `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}
