// Package auth authenticates API principals and issues session tokens. The
// engine's fund-moving authorization happens in each component's role set;
// this layer only establishes who is calling.
package auth

import (
	"context"
	"errors"
	"time"

	"escrowd/internal/models"
	"escrowd/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles principal login and token validation.
type Service interface {
	Login(ctx context.Context, address, secret string) (string, error)
	ValidateToken(tokenString string) (*models.PrincipalClaims, error)
	GetPrincipal(address string) (*models.Principal, error)
}

type service struct {
	principals repositories.PrincipalRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewService(principals repositories.PrincipalRepository, jwtSecret string) Service {
	return &service{
		principals: principals,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   24 * time.Hour,
	}
}

func (s *service) Login(ctx context.Context, address, secret string) (string, error) {
	principal, err := s.principals.GetByAddress(address)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.SecretHash), []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &models.PrincipalClaims{
		Address:      principal.Address,
		Role:         principal.Role,
		TokenVersion: principal.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Address,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *service) ValidateToken(tokenString string) (*models.PrincipalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.PrincipalClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	principal, err := s.principals.GetByAddress(claims.Address)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if principal.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

func (s *service) GetPrincipal(address string) (*models.Principal, error) {
	return s.principals.GetByAddress(address)
}
