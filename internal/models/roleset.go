package models

import (
	"time"
)

// RoleSet is the persisted role state of one engine component: its owner and
// paused flag. Operator membership lives in RoleOperator rows.
type RoleSet struct {
	ID        uint   `gorm:"primarykey"`
	Component string `gorm:"uniqueIndex;not null"`
	Owner     string `gorm:"not null"`
	Paused    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleOperator is one allow-listed privileged operator of a component.
type RoleOperator struct {
	ID        uint   `gorm:"primarykey"`
	Component string `gorm:"uniqueIndex:idx_component_operator;not null"`
	Address   string `gorm:"uniqueIndex:idx_component_operator;not null"`
	CreatedAt time.Time
}
