package handlers

import (
	"strconv"

	"escrowd/internal/middleware"
	"escrowd/internal/services/processor"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler exposes the order processor's state machine.
type OrderHandler struct {
	processor processor.Service
}

func NewOrderHandler(p processor.Service) *OrderHandler {
	return &OrderHandler{processor: p}
}

func orderID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	order, err := h.processor.Order(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order", fiber.Map{"order": order})
}

func (h *OrderHandler) AddOrder(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		OrderID  int64  `json:"order_id"`
		Price    int64  `json:"price"`
		Acceptor string `json:"acceptor"`
		Origin   string `json:"origin"`
		Fee      int64  `json:"fee"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.AddOrder(c.Context(), caller, input.OrderID, input.Price, input.Acceptor, input.Origin, input.Fee); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order created", fiber.Map{"order_id": input.OrderID})
}

func (h *OrderHandler) SecurePay(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.SecurePay(c.Context(), caller, id, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order paid", fiber.Map{"order_id": id})
}

func (h *OrderHandler) ProcessPayment(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var input struct {
		ClientReputation   int64  `json:"client_reputation"`
		MerchantReputation int64  `json:"merchant_reputation"`
		DealHash           string `json:"deal_hash"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.ProcessPayment(c.Context(), caller, id, input.ClientReputation, input.MerchantReputation, input.DealHash); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order finalized", fiber.Map{"order_id": id})
}

func (h *OrderHandler) RefundPayment(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var input struct {
		ClientReputation   int64  `json:"client_reputation"`
		MerchantReputation int64  `json:"merchant_reputation"`
		DealHash           string `json:"deal_hash"`
		Note               string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.RefundPayment(c.Context(), caller, id, input.ClientReputation, input.MerchantReputation, input.DealHash, input.Note); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "refund staged", fiber.Map{"order_id": id})
}

// WithdrawRefund is the pull path: any authenticated principal may trigger
// it, and it works while the processor is paused.
func (h *OrderHandler) WithdrawRefund(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	if err := h.processor.WithdrawRefund(c.Context(), id); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "refund withdrawn", fiber.Map{"order_id": id})
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var input struct {
		ClientReputation   int64  `json:"client_reputation"`
		MerchantReputation int64  `json:"merchant_reputation"`
		DealHash           string `json:"deal_hash"`
		Note               string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.CancelOrder(c.Context(), caller, id, input.ClientReputation, input.MerchantReputation, input.DealHash, input.Note); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order cancelled", fiber.Map{"order_id": id})
}

func (h *OrderHandler) PayForOrder(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		OrderID int64  `json:"order_id"`
		Origin  string `json:"origin"`
		Fee     int64  `json:"fee"`
		Amount  int64  `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.PayForOrder(c.Context(), caller, input.OrderID, input.Origin, input.Fee, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "order paid", fiber.Map{"order_id": input.OrderID})
}

func (h *OrderHandler) RefundDirect(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := orderID(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var input struct {
		ClientAddress string `json:"client_address"`
		Note          string `json:"note"`
		Amount        int64  `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.processor.RefundDirect(c.Context(), caller, id, input.ClientAddress, input.Note, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "refund staged", fiber.Map{"order_id": id})
}
