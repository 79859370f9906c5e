package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment record statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// PaymentRecord is a ledger entry for one (student, concept) pair. The
// composite unique index makes repeated saves overlay the pair instead
// of accumulating duplicates.
type PaymentRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StudentID uint            `gorm:"not null;uniqueIndex:idx_payment_pair" json:"student_id"`
	ConceptID uint            `gorm:"not null;uniqueIndex:idx_payment_pair" json:"concept_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Status    string          `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsPaid reports whether the record settles its pair.
func (p PaymentRecord) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
