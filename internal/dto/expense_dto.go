package dto

import (
	"time"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// ExpenseCreateRequest is the multipart payload for recording an
// expense, optionally with a receipt file.
type ExpenseCreateRequest struct {
	Description string       `json:"description" validate:"required"`
	Amount      string       `json:"amount" validate:"required"`
	Date        string       `json:"date" validate:"required"`
	Actor       ActorPayload `json:"actor"`
}

// ExpenseDeleteRequest carries the fallback actor for a delete.
type ExpenseDeleteRequest struct {
	Actor ActorPayload `json:"actor"`
}

// ExpenseResponse is the serialized expense row.
type ExpenseResponse struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receipt_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewExpenseResponse maps an expense row to its response shape.
func NewExpenseResponse(expense models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		Description: expense.Description,
		Amount:      expense.Amount.StringFixed(2),
		Date:        expense.Date,
		ReceiptURL:  expense.ReceiptURL,
		CreatedAt:   expense.CreatedAt,
	}
}

// NewExpenseResponseSlice maps a set of expense rows.
func NewExpenseResponseSlice(expenses []models.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, NewExpenseResponse(expense))
	}
	return responses
}
