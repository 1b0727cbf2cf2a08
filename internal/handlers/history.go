package handlers

import (
	"escrowd/internal/middleware"
	"escrowd/internal/services/history"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler exposes the merchant's deal record.
type HistoryHandler struct {
	historyService history.Service
}

func NewHistoryHandler(historyService history.Service) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) GetDeals(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	deals, err := h.historyService.Deals(c.Context(), limit, offset)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "deals", fiber.Map{
		"merchant_id": h.historyService.MerchantID(),
		"deals":       deals,
	})
}

func (h *HistoryHandler) RecordDeal(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		OrderID            int64  `json:"order_id"`
		DealHash           string `json:"deal_hash"`
		ClientReputation   int64  `json:"client_reputation"`
		MerchantReputation int64  `json:"merchant_reputation"`
		Successful         bool   `json:"successful"`
		Note               string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.historyService.RecordDeal(c.Context(), caller, input.OrderID, input.DealHash,
		input.ClientReputation, input.MerchantReputation, input.Successful, input.Note); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "deal recorded", fiber.Map{"order_id": input.OrderID})
}
