package dto

import "time"

// StatsResponse carries the dashboard totals.
type StatsResponse struct {
	TotalPaid      string `json:"total_paid"`
	CompletedCount int    `json:"completed_count"`
	OverdueCount   int    `json:"overdue_count"`
	OverdueAmount  string `json:"overdue_amount"`
}

// CellEntry is one (student, concept) cell of the payment matrix.
type CellEntry struct {
	ConceptID   uint    `json:"concept_id"`
	ConceptCode string  `json:"concept_code"`
	Status      string  `json:"status"`
	Amount      *string `json:"amount"`
}

// StudentRow is one student's cells across all concepts.
type StudentRow struct {
	StudentID   uint        `json:"student_id"`
	StudentName string      `json:"student_name"`
	Cells       []CellEntry `json:"cells"`
}

// DashboardSummaryResponse is the summary view: totals plus the full
// payment matrix.
type DashboardSummaryResponse struct {
	Stats       StatsResponse `json:"stats"`
	Rows        []StudentRow  `json:"rows"`
	GeneratedAt time.Time     `json:"generated_at"`
	CacheHit    bool          `json:"cache_hit"`
}

// StudentDetailResponse is the per-student detail view, built from the
// same reconciliation core as the summary.
type StudentDetailResponse struct {
	StudentID    uint        `json:"student_id"`
	StudentName  string      `json:"student_name"`
	Cells        []CellEntry `json:"cells"`
	TotalPaid    string      `json:"total_paid"`
	OverdueCount int         `json:"overdue_count"`
	GeneratedAt  time.Time   `json:"generated_at"`
}
