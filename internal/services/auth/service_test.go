package auth

import (
	"context"
	"testing"

	"escrowd/internal/models"
	"escrowd/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestAuth(t *testing.T) (Service, repositories.PrincipalRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repositories.Migrate(db))

	principals := repositories.NewPrincipalRepository(db)
	return NewService(principals, "test-secret"), principals
}

func seedPrincipal(t *testing.T, principals repositories.PrincipalRepository, address, secret string) *models.Principal {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	p := &models.Principal{
		Address:      address,
		SecretHash:   string(hash),
		Role:         models.PrincipalRoleOperator,
		TokenVersion: 1,
	}
	require.NoError(t, principals.Create(p))
	return p
}

func TestLoginAndValidate(t *testing.T) {
	svc, principals := newTestAuth(t)
	seedPrincipal(t, principals, "operator-1", "hunter2")
	ctx := context.Background()

	t.Run("valid credentials issue a usable token", func(t *testing.T) {
		token, err := svc.Login(ctx, "operator-1", "hunter2")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "operator-1", claims.Address)
		assert.Equal(t, models.PrincipalRoleOperator, claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := svc.Login(ctx, "operator-1", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown principal", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestTokenVersionInvalidation(t *testing.T) {
	svc, principals := newTestAuth(t)
	p := seedPrincipal(t, principals, "operator-1", "hunter2")
	ctx := context.Background()

	token, err := svc.Login(ctx, "operator-1", "hunter2")
	require.NoError(t, err)

	// Bumping the version revokes every outstanding token.
	p.TokenVersion++
	require.NoError(t, principals.Update(p))

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
