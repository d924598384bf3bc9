package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// errorStatus traduce un error de dominio a status HTTP y código.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "CONFLICT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// errorMessage mensaje visible para el cliente; los errores internos no exponen detalles.
func errorMessage(err error) string {
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		return stock.Error()
	}
	var be *domain.BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return "internal error"
}

// responder escribe respuestas de error uniformes y registra los 500.
type responder struct {
	log *logger.Logger
}

func (r responder) fail(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := errorMessage(err)
	if status == fiber.StatusInternalServerError {
		r.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	} else if msg == "internal error" {
		msg = err.Error()
	}
	body := dto.ErrorResponse{Code: code, Message: msg}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		body.Shortfall = stock.Shortfall()
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
