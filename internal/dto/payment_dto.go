package dto

import (
	"time"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// ActorPayload carries caller-supplied actor identity. It is only a
// fallback: when a verified token identity is present it wins.
type ActorPayload struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	RoleID   uint   `json:"role_id"`
	CourseID uint   `json:"course_id"`
	SchoolID uint   `json:"school_id"`
}

// PaymentCreateRequest is the payload for recording a ledger entry.
type PaymentCreateRequest struct {
	StudentID uint         `json:"student_id" validate:"required"`
	ConceptID uint         `json:"concept_id" validate:"required"`
	Amount    string       `json:"amount" validate:"required"`
	Date      string       `json:"date" validate:"required"`
	Status    string       `json:"status" validate:"omitempty,oneof=pending paid"`
	Actor     ActorPayload `json:"actor"`
}

// PaymentUpdateRequest is the partial payload for editing a ledger entry.
type PaymentUpdateRequest struct {
	Amount *string      `json:"amount"`
	Date   *string      `json:"date"`
	Status *string      `json:"status" validate:"omitempty,oneof=pending paid"`
	Actor  ActorPayload `json:"actor"`
}

// PaymentDeleteRequest carries the fallback actor for a delete.
type PaymentDeleteRequest struct {
	Actor ActorPayload `json:"actor"`
}

// PaymentResponse is the serialized ledger entry.
type PaymentResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	ConceptID uint      `json:"concept_id"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPaymentResponse maps a ledger record to its response shape.
func NewPaymentResponse(record models.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:        record.ID,
		StudentID: record.StudentID,
		ConceptID: record.ConceptID,
		Amount:    record.Amount.StringFixed(2),
		Date:      record.Date,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// NewPaymentResponseSlice maps a set of ledger records.
func NewPaymentResponseSlice(records []models.PaymentRecord) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewPaymentResponse(record))
	}
	return responses
}
