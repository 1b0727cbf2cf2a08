package handlers

import (
	"escrowd/internal/middleware"
	"escrowd/internal/services/gateway"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// GatewayHandler exposes the settlement gateway: fee policy introspection,
// vault management and direct operator-driven settlements.
type GatewayHandler struct {
	gatewayService gateway.Service
}

func NewGatewayHandler(gatewayService gateway.Service) *GatewayHandler {
	return &GatewayHandler{gatewayService: gatewayService}
}

func (h *GatewayHandler) GetFees(c *fiber.Ctx) error {
	value := int64(c.QueryInt("value", 0))
	return response.Success(c, "fees", fiber.Map{
		"fee_permille": h.gatewayService.Fees().Permille,
		"vault":        h.gatewayService.Vault(),
		"max_fee":      h.gatewayService.MaxFee(value),
	})
}

func (h *GatewayHandler) AcceptPayment(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Value       int64  `json:"value"`
		Fee         int64  `json:"fee"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.gatewayService.AcceptPayment(c.Context(), caller, input.Source, input.Destination, input.Value, input.Fee); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payment accepted", fiber.Map{"value": input.Value, "fee": input.Fee})
}

func (h *GatewayHandler) ChangeVault(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Vault string `json:"vault"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.gatewayService.ChangeVault(c.Context(), caller, input.Vault); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "vault changed", fiber.Map{"vault": input.Vault})
}
