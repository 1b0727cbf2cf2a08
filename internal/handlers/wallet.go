package handlers

import (
	"escrowd/internal/middleware"
	"escrowd/internal/services/wallet"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes the merchant custody wallet.
type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	w, err := h.walletService.Wallet(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	balance, err := h.walletService.Balance(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "wallet", fiber.Map{"wallet": w, "balance": balance})
}

func (h *WalletHandler) SetProfile(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Key                string `json:"key"`
		Value              string `json:"value"`
		ReputationCategory string `json:"reputation_category"`
		ReputationValue    int64  `json:"reputation_value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.SetProfile(c.Context(), caller, input.Key, input.Value, input.ReputationCategory, input.ReputationValue); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "profile updated", nil)
}

func (h *WalletHandler) SetPaymentSettings(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.SetPaymentSettings(c.Context(), caller, input.Key, input.Value); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "settings updated", nil)
}

func (h *WalletHandler) GetProfile(c *fiber.Ctx) error {
	value, err := h.walletService.Profile(c.Context(), c.Params("key"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "profile", fiber.Map{"key": c.Params("key"), "value": value})
}

func (h *WalletHandler) GetPaymentSetting(c *fiber.Ctx) error {
	value, err := h.walletService.PaymentSetting(c.Context(), c.Params("key"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "setting", fiber.Map{"key": c.Params("key"), "value": value})
}

func (h *WalletHandler) SetCompositeReputation(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Category string `json:"category"`
		Value    int64  `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.SetCompositeReputation(c.Context(), caller, input.Category, input.Value); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "reputation updated", nil)
}

func (h *WalletHandler) GetCompositeReputation(c *fiber.Ctx) error {
	score, err := h.walletService.CompositeReputation(c.Context(), c.Params("category"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "reputation", fiber.Map{"category": c.Params("category"), "score": score})
}

func (h *WalletHandler) ChangeMerchantAccount(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		NewAccount string `json:"new_account"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.ChangeMerchantAccount(c.Context(), caller, input.NewAccount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "merchant account changed", nil)
}

func (h *WalletHandler) ChangeFundAddress(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		NewAddress string `json:"new_address"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.ChangeFundAddress(c.Context(), caller, input.NewAddress); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "fund address changed", nil)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Recipient string `json:"recipient"`
		Amount    int64  `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.walletService.WithdrawTo(c.Context(), caller, input.Recipient, input.Amount); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "withdrawal complete", fiber.Map{"amount": input.Amount})
}

func (h *WalletHandler) WithdrawToExchange(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Recipient string `json:"recipient"`
		Amount    int64  `json:"amount"`
		All       bool   `json:"all"`
		MinAmount int64  `json:"min_amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.All {
		err = h.walletService.WithdrawAllToExchange(c.Context(), caller, input.Recipient, input.MinAmount)
	} else {
		err = h.walletService.WithdrawToExchange(c.Context(), caller, input.Recipient, input.Amount)
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "exchange withdrawal complete", nil)
}
