package models

import (
	"time"
)

// Account is a ledger account. Every principal that can hold value has
// exactly one row: clients, merchant fund addresses, the platform vault and
// the engine-controlled escrow accounts.
//
// IsContract marks addresses controlled by the engine itself (wallet escrow
// accounts, processor escrow accounts, the vault). Merchant fund addresses
// must never point at a contract account.
type Account struct {
	ID         uint   `gorm:"primarykey"`
	Address    string `gorm:"uniqueIndex;not null"`
	Balance    int64  `gorm:"not null;default:0"`
	IsContract bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
