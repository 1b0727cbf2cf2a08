package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalClaims are the JWT claims carried by an authenticated API caller.
type PrincipalClaims struct {
	Address      string `json:"address"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}
