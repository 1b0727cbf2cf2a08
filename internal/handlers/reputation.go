package handlers

import (
	"escrowd/internal/middleware"
	"escrowd/internal/services/reputation"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ReputationHandler exposes the user-reputation registry and the
// claimed-token records that sit alongside it.
type ReputationHandler struct {
	reputationService reputation.Service
	claimService      reputation.ClaimService
}

func NewReputationHandler(reputationService reputation.Service, claimService reputation.ClaimService) *ReputationHandler {
	return &ReputationHandler{reputationService: reputationService, claimService: claimService}
}

func (h *ReputationHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.reputationService.User(c.Context(), c.Params("address"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "user", user)
}

type userDetailsInput struct {
	Address          string `json:"address"`
	Name             string `json:"name"`
	StarScore        int64  `json:"star_score"`
	ReputationScore  int64  `json:"reputation_score"`
	TrustScore       int64  `json:"trust_score"`
	SignedDealsCount int64  `json:"signed_deals_count"`
}

func (i userDetailsInput) details() reputation.UserDetails {
	return reputation.UserDetails{
		Address:          i.Address,
		Name:             i.Name,
		StarScore:        i.StarScore,
		ReputationScore:  i.ReputationScore,
		TrustScore:       i.TrustScore,
		SignedDealsCount: i.SignedDealsCount,
	}
}

func (h *ReputationHandler) RegisterUser(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input userDetailsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.reputationService.RegisterUser(c.Context(), caller, input.details()); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "user registered", fiber.Map{"address": input.Address})
}

func (h *ReputationHandler) UpdateUser(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	address := c.Params("address")
	var input struct {
		Field string `json:"field"`
		Name  string `json:"name"`
		Score int64  `json:"score"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	switch input.Field {
	case "name":
		err = h.reputationService.UpdateName(c.Context(), caller, address, input.Name)
	case "star_score":
		err = h.reputationService.UpdateStarScore(c.Context(), caller, address, input.Score)
	case "reputation_score":
		err = h.reputationService.UpdateReputationScore(c.Context(), caller, address, input.Score)
	case "trust_score":
		err = h.reputationService.UpdateTrustScore(c.Context(), caller, address, input.Score)
	case "signed_deals_count":
		err = h.reputationService.UpdateSignedDealsCount(c.Context(), caller, address, input.Score)
	default:
		return response.BadRequest(c, "Unknown field")
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "user updated", fiber.Map{"address": address, "field": input.Field})
}

func (h *ReputationHandler) UpdateUsersInBulk(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Users []userDetailsInput `json:"users"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	batch := make([]reputation.UserDetails, 0, len(input.Users))
	for _, u := range input.Users {
		batch = append(batch, u.details())
	}
	if err := h.reputationService.UpdateUserDetailsInBulk(c.Context(), caller, batch); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "users updated", fiber.Map{"count": len(batch)})
}

func (h *ReputationHandler) UpdateTrustScoresInBulk(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Addresses []string `json:"addresses"`
		Scores    []int64  `json:"scores"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.reputationService.UpdateTrustScoreInBulk(c.Context(), caller, input.Addresses, input.Scores); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "trust scores updated", fiber.Map{"count": len(input.Addresses)})
}

func (h *ReputationHandler) GetClaim(c *fiber.Ctx) error {
	address := c.Params("address")
	tokens, err := h.claimService.ClaimedTokens(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "claim", fiber.Map{"address": address, "claimed_tokens": tokens})
}

func (h *ReputationHandler) UpdateClaim(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Address string `json:"address"`
		Tokens  int64  `json:"tokens"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.claimService.UpdateUserClaim(c.Context(), caller, input.Address, input.Tokens); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "claim updated", fiber.Map{"address": input.Address, "claimed_tokens": input.Tokens})
}

func (h *ReputationHandler) DeleteClaim(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	address := c.Params("address")
	if err := h.claimService.DeleteUserClaim(c.Context(), caller, address); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "claim deleted", fiber.Map{"address": address})
}

func (h *ReputationHandler) UpdateClaimsInBulk(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Addresses []string `json:"addresses"`
		Tokens    []int64  `json:"tokens"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.claimService.UpdateUserClaimsInBulk(c.Context(), caller, input.Addresses, input.Tokens); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "claims updated", fiber.Map{"count": len(input.Addresses)})
}

func (h *ReputationHandler) DeleteClaimsInBulk(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		Addresses []string `json:"addresses"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.claimService.DeleteUserClaimsInBulk(c.Context(), caller, input.Addresses); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "claims deleted", fiber.Map{"count": len(input.Addresses)})
}
