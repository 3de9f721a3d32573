package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/middleware"
	"github.com/mobidic-dev/tripsettle/internal/service"
)

// RoomHandler serves room creation, listing, and membership.
type RoomHandler struct {
	Rooms *service.RoomService
}

type createRoomRequest struct {
	Name string `json:"name"`
}

type joinRoomRequest struct {
	InviteCode string `json:"invite_code"`
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req createRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	room, err := h.Rooms.CreateRoom(c.Context(), middleware.UserID(c), middleware.DisplayName(c), req.Name)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// List handles GET /api/rooms.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	rooms, err := h.Rooms.ListRooms(c.Context(), middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c *fiber.Ctx) error {
	room, err := h.Rooms.GetRoom(c.Context(), c.Params("id"), middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(room)
}

// Join handles POST /api/rooms/join.
func (h *RoomHandler) Join(c *fiber.Ctx) error {
	var req joinRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	room, err := h.Rooms.JoinRoom(c.Context(), req.InviteCode, middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(room)
}

// AddMembers handles POST /api/rooms/:id/members.
func (h *RoomHandler) AddMembers(c *fiber.Ctx) error {
	var req addMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	room, err := h.Rooms.AddMembers(c.Context(), c.Params("id"), middleware.DisplayName(c), req.Members)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(room)
}
