package handlers

import (
	"context"
	"time"

	"escrowd/internal/middleware"
	"escrowd/internal/services/acceptor"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AcceptorHandler exposes the time-locked payment acceptor.
type AcceptorHandler struct {
	acceptorService acceptor.Service
}

func NewAcceptorHandler(acceptorService acceptor.Service) *AcceptorHandler {
	return &AcceptorHandler{acceptorService: acceptorService}
}

func (h *AcceptorHandler) GetState(c *fiber.Ctx) error {
	state, err := h.acceptorService.State(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "acceptor state", state)
}

func (h *AcceptorHandler) AssignOrder(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		OrderID int64 `json:"order_id"`
		Price   int64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.acceptorService.AssignOrder(c.Context(), caller, input.OrderID, input.Price); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order assigned", fiber.Map{"order_id": input.OrderID})
}

func (h *AcceptorHandler) UnassignMerchant(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if err := h.acceptorService.UnassignMerchant(c.Context(), caller); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "merchant unassigned", nil)
}

func (h *AcceptorHandler) SecurePay(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.acceptorService.SecurePay(c.Context(), caller, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payment escrowed", fiber.Map{"amount": input.Amount})
}

func (h *AcceptorHandler) Pay(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.acceptorService.Pay(c.Context(), caller, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payment escrowed", fiber.Map{"amount": input.Amount})
}

func (h *AcceptorHandler) SetClient(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Client string `json:"client"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.acceptorService.SetClient(c.Context(), caller, input.Client); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "client set", fiber.Map{"client": input.Client})
}

type acceptorOutcomeInput struct {
	ClientReputation   int64  `json:"client_reputation"`
	MerchantReputation int64  `json:"merchant_reputation"`
	DealHash           string `json:"deal_hash"`
}

func (h *AcceptorHandler) ProcessPayment(c *fiber.Ctx) error {
	return h.outcome(c, h.acceptorService.ProcessPayment, "payment processed")
}

func (h *AcceptorHandler) RefundPayment(c *fiber.Ctx) error {
	return h.outcome(c, h.acceptorService.RefundPayment, "refund staged")
}

func (h *AcceptorHandler) CancelOrder(c *fiber.Ctx) error {
	return h.outcome(c, h.acceptorService.CancelOrder, "order cancelled")
}

func (h *AcceptorHandler) outcome(
	c *fiber.Ctx,
	fn func(ctx context.Context, caller string, clientRep, merchantRep int64, dealHash string) error,
	message string,
) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input acceptorOutcomeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := fn(c.Context(), caller, input.ClientReputation, input.MerchantReputation, input.DealHash); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, message, nil)
}

func (h *AcceptorHandler) WithdrawRefund(c *fiber.Ctx) error {
	if err := h.acceptorService.WithdrawRefund(c.Context()); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "refund withdrawn", nil)
}

func (h *AcceptorHandler) SetLifetime(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		LifetimeSeconds int64 `json:"lifetime_seconds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.acceptorService.SetLifetime(c.Context(), caller, time.Duration(input.LifetimeSeconds)*time.Second); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "lifetime updated", fiber.Map{"lifetime_seconds": input.LifetimeSeconds})
}
