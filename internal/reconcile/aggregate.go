package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// Stats are the dashboard totals reduced from the ledger and the
// overdue map. The zero value is the correct result for empty inputs.
type Stats struct {
	TotalPaid      decimal.Decimal
	CompletedCount int
	OverdueCount   int
	OverdueAmount  decimal.Decimal
}

// Aggregate reduces the ledger and the overdue pair set into summary
// statistics. OverdueCount counts every overdue cell, recorded or not;
// OverdueAmount only sums unpaid records whose pair is overdue, since
// an empty cell has no amount to sum. That asymmetry is intentional.
func Aggregate(records []models.PaymentRecord, overdue map[PairKey]bool) Stats {
	stats := Stats{
		TotalPaid:     decimal.Zero,
		OverdueAmount: decimal.Zero,
		OverdueCount:  len(overdue),
	}

	for _, record := range records {
		if record.IsPaid() {
			stats.TotalPaid = stats.TotalPaid.Add(record.Amount)
			stats.CompletedCount++
			continue
		}

		key := PairKey{StudentID: record.StudentID, ConceptID: record.ConceptID}
		if overdue[key] {
			stats.OverdueAmount = stats.OverdueAmount.Add(record.Amount)
		}
	}

	return stats
}
