package models

import (
	"time"
)

// UserClaim is the claimed-token balance of one registry user, keyed by
// principal address. A deleted claim and an absent one both read as zero.
type UserClaim struct {
	ID            uint   `gorm:"primarykey"`
	Address       string `gorm:"uniqueIndex;not null"`
	ClaimedTokens int64  `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
