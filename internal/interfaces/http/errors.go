package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/domain"
)

// errorStatus traduce los errores de dominio a status HTTP y código de respuesta.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotReady):
		return fiber.StatusServiceUnavailable, "NOT_READY"
	case errors.Is(err, domain.ErrWrite):
		return fiber.StatusInternalServerError, "WRITE_FAILED"
	case errors.Is(err, domain.ErrQuery):
		return fiber.StatusInternalServerError, "QUERY_FAILED"
	case errors.Is(err, domain.ErrProvisioning):
		return fiber.StatusInternalServerError, "PROVISIONING_FAILED"
	case errors.Is(err, domain.ErrTeardown):
		return fiber.StatusInternalServerError, "TEARDOWN_FAILED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: msg})
}
