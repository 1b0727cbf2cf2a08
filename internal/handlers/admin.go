package handlers

import (
	"escrowd/internal/access"
	"escrowd/internal/middleware"
	"escrowd/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler manages role state across engine components: ownership
// transfer, the operator allow-list and the pause switch.
type AdminHandler struct {
	controls map[string]*access.Control
}

func NewAdminHandler(controls map[string]*access.Control) *AdminHandler {
	return &AdminHandler{controls: controls}
}

func (h *AdminHandler) control(c *fiber.Ctx) (*access.Control, error) {
	ctl, ok := h.controls[c.Params("component")]
	if !ok {
		return nil, response.Error(c, fiber.StatusNotFound, "Unknown component")
	}
	return ctl, nil
}

func (h *AdminHandler) GetStatus(c *fiber.Ctx) error {
	ctl, err := h.control(c)
	if ctl == nil {
		return err
	}
	return response.Success(c, "status", fiber.Map{
		"component": c.Params("component"),
		"owner":     ctl.Owner(),
		"paused":    ctl.Paused(),
	})
}

func (h *AdminHandler) Pause(c *fiber.Ctx) error {
	return h.toggle(c, true)
}

func (h *AdminHandler) Unpause(c *fiber.Ctx) error {
	return h.toggle(c, false)
}

func (h *AdminHandler) toggle(c *fiber.Ctx, paused bool) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	ctl, ctlErr := h.control(c)
	if ctl == nil {
		return ctlErr
	}
	if paused {
		err = ctl.Pause(caller)
	} else {
		err = ctl.Unpause(caller)
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "pause state updated", fiber.Map{"paused": paused})
}

func (h *AdminHandler) SetOperator(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	ctl, ctlErr := h.control(c)
	if ctl == nil {
		return ctlErr
	}
	var input struct {
		Address string `json:"address"`
		Enabled bool   `json:"enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := ctl.SetOperator(caller, input.Address, input.Enabled); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "operator updated", fiber.Map{"address": input.Address, "enabled": input.Enabled})
}

func (h *AdminHandler) TransferOwnership(c *fiber.Ctx) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	ctl, ctlErr := h.control(c)
	if ctl == nil {
		return ctlErr
	}
	var input struct {
		NewOwner string `json:"new_owner"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := ctl.TransferOwnership(caller, input.NewOwner); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "ownership transferred", fiber.Map{"owner": input.NewOwner})
}
