// Package middleware provides HTTP middleware for the API surface.
package middleware

import (
	"log"
	"strings"

	"escrowd/internal/models"
	"escrowd/internal/services/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and stores the caller's principal
// claims in the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := m.authService.ValidateToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	return c.Next()
}

// Caller extracts the authenticated principal address from the context.
func Caller(c *fiber.Ctx) (string, error) {
	claims, ok := c.Locals("claims").(*models.PrincipalClaims)
	if !ok || claims == nil {
		return "", fiber.ErrUnauthorized
	}
	return claims.Address, nil
}
