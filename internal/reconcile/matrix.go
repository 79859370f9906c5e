package reconcile

import (
	"time"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// CellStatus is the derived display state of one (student, concept)
// pair. It is recomputed on every read and never persisted.
type CellStatus string

// Cell states.
const (
	CellPaid    CellStatus = "paid"
	CellPending CellStatus = "pending"
	CellOverdue CellStatus = "overdue"
)

// PairKey identifies one cell of the student×concept space.
type PairKey struct {
	StudentID uint
	ConceptID uint
}

// Matrix holds the cell status for every (student, concept) pair,
// keyed by student then concept.
type Matrix map[uint]map[uint]CellStatus

// IndexLedger groups ledger records by their (student, concept) pair.
// The ledger overlays writes per pair, so at most one record per key.
func IndexLedger(records []models.PaymentRecord) map[PairKey]models.PaymentRecord {
	indexed := make(map[PairKey]models.PaymentRecord, len(records))
	for _, record := range records {
		key := PairKey{StudentID: record.StudentID, ConceptID: record.ConceptID}
		existing, ok := indexed[key]
		// Last write wins, but a paid record is never shadowed by a
		// stale pending duplicate.
		if !ok || !existing.IsPaid() {
			indexed[key] = record
		}
	}
	return indexed
}

// BuildMatrix joins the full student×concept cross-product with the
// ledger and the overdue classification. A paid ledger entry always
// wins: a student who pays late for an overdue concept shows as paid.
func BuildMatrix(students []models.Student, concepts []models.Concept, records []models.PaymentRecord, now time.Time, policy OverduePolicy) Matrix {
	ledger := IndexLedger(records)

	overdueByConcept := make(map[uint]bool, len(concepts))
	for _, concept := range concepts {
		overdueByConcept[concept.ID] = Classify(concept, now, policy)
	}

	matrix := make(Matrix, len(students))
	for _, student := range students {
		row := make(map[uint]CellStatus, len(concepts))
		for _, concept := range concepts {
			key := PairKey{StudentID: student.ID, ConceptID: concept.ID}
			switch {
			case ledger[key].IsPaid():
				row[concept.ID] = CellPaid
			case overdueByConcept[concept.ID]:
				row[concept.ID] = CellOverdue
			default:
				row[concept.ID] = CellPending
			}
		}
		matrix[student.ID] = row
	}

	return matrix
}

// OverduePairs returns every (student, concept) pair whose concept
// classifies overdue, independent of whether a ledger entry exists.
// This is the aggregation input for overdue counting.
func OverduePairs(students []models.Student, concepts []models.Concept, now time.Time, policy OverduePolicy) map[PairKey]bool {
	overdue := make(map[PairKey]bool)
	for _, concept := range concepts {
		if !Classify(concept, now, policy) {
			continue
		}
		for _, student := range students {
			overdue[PairKey{StudentID: student.ID, ConceptID: concept.ID}] = true
		}
	}
	return overdue
}
