package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	session, err := h.Auth.Register(c.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	session, err := h.Auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(session)
}
