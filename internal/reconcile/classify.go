package reconcile

import (
	"strings"
	"time"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// monthOrdinals maps month codes to their calendar position.
var monthOrdinals = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4,
	"may": 5, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// MonthOrdinal resolves a concept code to its calendar month number,
// returning false when the code is not a month abbreviation.
func MonthOrdinal(code string) (int, bool) {
	m, ok := monthOrdinals[strings.ToLower(strings.TrimSpace(code))]
	return m, ok
}

// Classify reports whether a concept counts as overdue at the given
// instant. Rules apply in order, first match wins:
//
//  1. codes in the forced-overdue set are always overdue
//  2. month-coded concepts are overdue once the current month (same
//     year) has passed theirs; a November concept evaluated the
//     following January is NOT overdue, the year boundary is
//     intentionally not handled
//  3. an explicit due date makes the concept overdue after the end of
//     that day
//  4. ad-hoc concepts are overdue unless their code is the configured
//     exemption
//
// Anything else is not overdue. The function is total: every concept
// reaches exactly one outcome.
func Classify(concept models.Concept, now time.Time, policy OverduePolicy) bool {
	if policy.ForcedOverdue(concept.Code) {
		return true
	}

	if month, ok := MonthOrdinal(concept.Code); ok && int(now.Month()) > month {
		return true
	}

	if concept.DueDate != nil {
		due := *concept.DueDate
		endOfDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location()).AddDate(0, 0, 1)
		return !now.Before(endOfDay)
	}

	if concept.IsAdHoc() {
		return !policy.Exempt(concept.Code)
	}

	return false
}
