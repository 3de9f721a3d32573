package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReceiptHandler is the OCR boundary. The real recognizer is an external
// service that is not wired up yet, so Parse returns a canned result with
// the same shape the frontend expects.
type ReceiptHandler struct{}

type parsedReceipt struct {
	Merchant string        `json:"merchant"`
	PaidAt   string        `json:"paid_at"`
	Total    int64         `json:"total"`
	Items    []receiptItem `json:"items"`
	RawText  string        `json:"raw_text"`
}

type receiptItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Parse handles POST /api/receipts/parse. The uploaded image is accepted
// and discarded; the response is a fixed sample until OCR lands.
func (h *ReceiptHandler) Parse(c *fiber.Ctx) error {
	if _, err := c.FormFile("receipt"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "receipt file required"})
	}

	return c.JSON(parsedReceipt{
		Merchant: "카페(더미)",
		PaidAt:   time.Now().Format(time.RFC3339),
		Total:    24500,
		Items: []receiptItem{
			{Name: "아메리카노", Price: 4500, Quantity: 2},
			{Name: "라떼", Price: 5000, Quantity: 2},
			{Name: "케이크", Price: 10500, Quantity: 1},
		},
		RawText: "(더미 OCR 텍스트)",
	})
}
