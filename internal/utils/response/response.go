package response

import (
	"errors"

	"escrowd/internal/access"
	"escrowd/internal/services/acceptor"
	"escrowd/internal/services/gateway"
	"escrowd/internal/services/processor"
	"escrowd/internal/services/reputation"
	"escrowd/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError maps engine errors onto HTTP statuses. Anything unknown is a
// server error.
func DomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		return Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, access.ErrPaused):
		return Error(c, fiber.StatusLocked, err.Error())
	case errors.Is(err, processor.ErrInvalidState),
		errors.Is(err, processor.ErrOrderExists),
		errors.Is(err, processor.ErrAlreadyWithdrawn),
		errors.Is(err, acceptor.ErrInvalidState),
		errors.Is(err, acceptor.ErrOrderExpired),
		errors.Is(err, acceptor.ErrOrderNotExpired):
		return Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, processor.ErrInvalidAmount),
		errors.Is(err, processor.ErrInvalidOrder),
		errors.Is(err, acceptor.ErrInvalidAmount),
		errors.Is(err, acceptor.ErrInvalidOrder),
		errors.Is(err, gateway.ErrFeeExceedsLimit),
		errors.Is(err, gateway.ErrInvalidValue),
		errors.Is(err, processor.ErrMerchantMismatch),
		errors.Is(err, wallet.ErrInvalidRecipient),
		errors.Is(err, wallet.ErrBelowMinimum),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidAccount),
		errors.Is(err, reputation.ErrBatchMismatch),
		errors.Is(err, reputation.ErrEmptyBatch),
		errors.Is(err, reputation.ErrInvalidUser),
		errors.Is(err, reputation.ErrInvalidClaim),
		errors.Is(err, reputation.ErrUserExists):
		return BadRequest(c, err.Error())
	case errors.Is(err, processor.ErrOrderNotFound),
		errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, reputation.ErrUserNotFound):
		return Error(c, fiber.StatusNotFound, err.Error())
	default:
		return ServerError(c, err.Error())
	}
}
