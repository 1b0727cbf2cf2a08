package models

import (
	"time"
)

// Principal is an API identity that can authenticate against the engine.
// The secret is stored as a bcrypt hash. Role is informational for the API
// surface; fund-moving authorization is decided by each component's role set.
type Principal struct {
	ID           uint   `gorm:"primarykey"`
	Address      string `gorm:"uniqueIndex;not null"`
	SecretHash   string `gorm:"not null"`
	Role         string `gorm:"not null;default:'client'"`
	TokenVersion int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal roles used by the API surface.
const (
	PrincipalRoleOwner    = "owner"
	PrincipalRoleOperator = "operator"
	PrincipalRoleMerchant = "merchant"
	PrincipalRoleClient   = "client"
)
