package models

import (
	"time"
)

// Deal is an append-only audit record of one settled, refunded or cancelled
// order, keyed by merchant identity.
type Deal struct {
	ID                 uint   `gorm:"primarykey"`
	Reference          string `gorm:"uniqueIndex;not null"` // uuid
	MerchantID         string `gorm:"index;not null"`
	OrderID            int64  `gorm:"not null"`
	DealHash           string `gorm:"not null"`
	ClientReputation   int64
	MerchantReputation int64
	Successful         bool
	Note               string
	CreatedAt          time.Time
}
