// Package policy holds the per-entity authorization predicates and the
// redaction step applied to query results.
//
// Predicates are plain booleans. Callers decide whether a false answer is
// reported as not found (hiding existence) or forbidden.
package policy

import "github.com/punchamoorthee/ledgerview/internal/domain"

// Redact returns one entry per row, in order: the row itself when allow
// holds, nil otherwise. Page info must be computed from rows, not from the
// redacted result.
func Redact[T any](rows []T, allow func(T) bool) []*T {
	nodes := make([]*T, len(rows))
	for i := range rows {
		if allow(rows[i]) {
			row := rows[i]
			nodes[i] = &row
		}
	}
	return nodes
}

// Set bundles the policies for one requester.
type Set struct {
	Account     AccountPolicy
	Transaction TransactionPolicy
}

// For builds the policy set for r.
func For(r domain.Requester) Set {
	acc := AccountPolicy{r: r}
	return Set{
		Account:     acc,
		Transaction: TransactionPolicy{r: r, accounts: acc},
	}
}
