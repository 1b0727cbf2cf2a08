package handlers

import (
	"escrowd/internal/services/auth"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Address string `json:"address"`
		Secret  string `json:"secret"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	token, err := h.authService.Login(c.Context(), input.Address, input.Secret)
	if err != nil {
		return response.Unauthorized(c)
	}
	return response.Success(c, "logged in", fiber.Map{"token": token})
}
