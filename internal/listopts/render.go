package listopts

import "strings"

// RenderClauses composes the WHERE/ORDER BY/LIMIT fragments a list
// scan would append to its base SELECT, for debug logging and for
// golden-testing the fragment shapes spec §4.4's scenario table
// describes. It is not used to build the executor's actual SQL — that
// composition lives in internal/executor.ListNodeIDsUsingOptions,
// which also has to weave in a candidate-id restriction — but the
// three sub-clauses are identical.
func RenderClauses(opts Options, cursor *Cursor) (string, error) {
	limit, err := LimitClause(opts)
	if err != nil {
		return "", err
	}
	var parts []string
	if threshold := ThresholdClause(opts, cursor); threshold != "" {
		parts = append(parts, "WHERE "+threshold)
	}
	parts = append(parts, OrderByClause(opts), limit)
	return strings.Join(parts, " "), nil
}
