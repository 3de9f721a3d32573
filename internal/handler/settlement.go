package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/middleware"
	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/service"
)

// SettlementHandler serves the settlement view and the transfer lifecycle
// operations. Transfers are addressed by explicit from/to fields rather
// than a packed id string, so member names need no escaping.
type SettlementHandler struct {
	Settlement *service.SettlementService
}

type transferRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r transferRef) id() models.TransferID {
	return models.TransferID{From: r.From, To: r.To}
}

// Get handles GET /api/rooms/:id/settlement.
func (h *SettlementHandler) Get(c *fiber.Ctx) error {
	view, err := h.Settlement.ComputeSettlement(c.Context(), c.Params("id"), middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

// Request handles POST /api/rooms/:id/settlement/request.
func (h *SettlementHandler) Request(c *fiber.Ctx) error {
	return h.mutate(c, h.Settlement.RequestTransfer)
}

// Resend handles POST /api/rooms/:id/settlement/resend.
func (h *SettlementHandler) Resend(c *fiber.Ctx) error {
	return h.mutate(c, h.Settlement.ResendTransfer)
}

// Done handles POST /api/rooms/:id/settlement/done.
func (h *SettlementHandler) Done(c *fiber.Ctx) error {
	return h.mutate(c, h.Settlement.MarkTransferDone)
}

// RequestAll handles POST /api/rooms/:id/settlement/request-all.
func (h *SettlementHandler) RequestAll(c *fiber.Ctx) error {
	view, err := h.Settlement.RequestAllReady(c.Context(), c.Params("id"), middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

type transition func(ctx context.Context, roomID, me string, id models.TransferID) (*service.SettlementView, error)

func (h *SettlementHandler) mutate(c *fiber.Ctx, op transition) error {
	var req transferRef
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	view, err := op(c.Context(), c.Params("id"), middleware.DisplayName(c), req.id())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(view)
}
