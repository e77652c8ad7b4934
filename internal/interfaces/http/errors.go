package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain"
)

// writeError traduce la clase del error de dominio a status HTTP conservando el mensaje
// y las referencias ofensivas.
// Un error sin clase de dominio se registra y el cliente solo recibe un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: internalMessage})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Refs:    domain.RefsOf(err),
	})
}

const internalMessage = "error interno del servidor"

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidOperation):
		return fiber.StatusBadRequest, "INVALID_OPERATION"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
