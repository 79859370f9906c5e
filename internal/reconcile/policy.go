// Package reconcile holds the payment reconciliation core: classifying
// a concept as overdue, joining the student×concept space against the
// sparse payment ledger, and reducing the result into dashboard
// statistics. Everything here is pure; both the summary and the detail
// views consume this single package.
package reconcile

import "strings"

// OverduePolicy carries the configured classification overrides. The
// forced set and the exemption code come from configuration so the rules
// can be audited and changed without a redeploy.
type OverduePolicy struct {
	forced     map[string]struct{}
	ExemptCode string
}

// NewOverduePolicy builds a policy from the configured code lists.
func NewOverduePolicy(forcedCodes []string, exemptCode string) OverduePolicy {
	forced := make(map[string]struct{}, len(forcedCodes))
	for _, code := range forcedCodes {
		code = strings.TrimSpace(code)
		if code != "" {
			forced[code] = struct{}{}
		}
	}

	return OverduePolicy{forced: forced, ExemptCode: strings.TrimSpace(exemptCode)}
}

// ForcedOverdue reports whether the code is always treated as overdue.
func (p OverduePolicy) ForcedOverdue(code string) bool {
	_, ok := p.forced[code]
	return ok
}

// Exempt reports whether the code is the single always-not-overdue
// carve-out for ad-hoc concepts.
func (p OverduePolicy) Exempt(code string) bool {
	return p.ExemptCode != "" && code == p.ExemptCode
}
