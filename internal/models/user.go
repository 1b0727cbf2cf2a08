package models

import (
	"time"
)

// User is a reputation-registry record, keyed by principal address. Scores
// are plain last-write-wins values maintained by the platform owner.
type User struct {
	ID               uint   `gorm:"primarykey"`
	Address          string `gorm:"uniqueIndex;not null"`
	Name             string
	StarScore        int64 `gorm:"not null;default:0"`
	ReputationScore  int64 `gorm:"not null;default:0"`
	TrustScore       int64 `gorm:"not null;default:0"`
	SignedDealsCount int64 `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
