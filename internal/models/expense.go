package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cost-tracking ledger entry, optionally backed by a
// stored receipt file.
type Expense struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Description     string          `gorm:"size:255;not null" json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date            time.Time       `gorm:"not null" json:"date"`
	ReceiptURL      string          `gorm:"size:512" json:"receipt_url"`
	ReceiptPublicID string          `gorm:"size:255" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
