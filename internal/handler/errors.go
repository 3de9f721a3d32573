// Package handler exposes the HTTP surface: thin fiber handlers that parse
// requests, call the services, and map typed service errors to status codes.
package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/auth"
	"github.com/mobidic-dev/tripsettle/internal/service"
)

// fail maps a service error to its HTTP status and a JSON error body.
//
// InvalidRecord -> 400, IllegalTransition -> 409, UnknownTransfer -> 404,
// membership -> 403, credentials -> 401, everything else -> 500.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidRecord),
		errors.Is(err, service.ErrEmptyRoomName),
		errors.Is(err, service.ErrBadRegistration),
		errors.Is(err, auth.ErrWeakPassword):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, auth.ErrEmailExists):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrUnknownTransfer):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrNotRoomMember):
		status = fiber.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = fiber.StatusUnauthorized
	case strings.Contains(err.Error(), "not found"):
		// Store lookups report missing rows as "<thing> not found: <id>".
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
