package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bazar-api/internal/application/dto"
	"github.com/jhoicas/Bazar-api/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotAvailable, fiber.StatusNotFound, "NOT_AVAILABLE"},
	{domain.ErrAlreadyExists, fiber.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrRetryExhausted, fiber.StatusConflict, "RETRY_EXHAUSTED"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrSessionAlreadyOpen, fiber.StatusConflict, "SESSION_ALREADY_OPEN"},
	{domain.ErrNoOpenSession, fiber.StatusConflict, "NO_OPEN_SESSION"},
	{domain.ErrSigning, fiber.StatusBadGateway, "SIGNING_ERROR"},
	{domain.ErrUnauthorized, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con el status y código del error; los no mapeados son 500 sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
