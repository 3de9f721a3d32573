package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/middleware"
	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/service"
)

// ExpenseHandler serves expense creation, listing, and deletion.
type ExpenseHandler struct {
	Expenses *service.ExpenseService
}

type createExpenseRequest struct {
	Title        string            `json:"title"`
	PaidOn       string            `json:"paid_on"`
	PayerName    string            `json:"payer_name"`
	Split        models.SplitKind  `json:"split"`
	Amount       int64             `json:"amount"`
	Participants []string          `json:"participants"`
	Items        []models.LineItem `json:"items"`
}

// Create handles POST /api/rooms/:id/expenses.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var req createExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	expense := &models.Expense{
		RoomID:       c.Params("id"),
		Title:        req.Title,
		PaidOn:       req.PaidOn,
		PayerName:    req.PayerName,
		Split:        req.Split,
		Amount:       req.Amount,
		Participants: req.Participants,
		Items:        req.Items,
	}

	created, err := h.Expenses.CreateExpense(c.Context(), middleware.DisplayName(c), expense)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// List handles GET /api/rooms/:id/expenses.
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	expenses, err := h.Expenses.ListExpenses(c.Context(), c.Params("id"), middleware.DisplayName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"expenses": expenses})
}

// Delete handles DELETE /api/rooms/:id/expenses/:expenseId.
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	err := h.Expenses.DeleteExpense(c.Context(), c.Params("id"), middleware.DisplayName(c), c.Params("expenseId"))
	if err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
