package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/unclerayray/ml-metadata/internal/dbdriver"
	"github.com/unclerayray/ml-metadata/internal/listopts"
	"github.com/unclerayray/ml-metadata/internal/mlmderr"
)

// ListNodeIDsUsingOptions runs the §4.4 pagination query for one node
// table: `SELECT id FROM <table> WHERE [id IN (candidates) AND]
// <threshold> <order-by> <limit>`. An empty (non-nil) candidates slice
// short-circuits to an empty RecordSet without issuing SQL.
func (e *Executor) ListNodeIDsUsingOptions(ctx context.Context, table string, opts listopts.Options, cursor *listopts.Cursor, candidateIDs []int64) (*dbdriver.RecordSet, error) {
	if candidateIDs != nil && len(candidateIDs) == 0 {
		return &dbdriver.RecordSet{Columns: []string{"id"}}, nil
	}

	limit, err := listopts.LimitClause(opts)
	if err != nil {
		return nil, err
	}

	var where []string
	if candidateIDs != nil {
		where = append(where, fmt.Sprintf("`id` IN (%s)", joinInt64s(candidateIDs)))
	}
	if threshold := listopts.ThresholdClause(opts, cursor); threshold != "" {
		where = append(where, threshold)
	}

	sql := fmt.Sprintf("SELECT `id` FROM `%s`", table)
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " " + listopts.OrderByClause(opts) + " " + limit

	rs, err := e.Tx.Query(ctx, sql)
	if err != nil {
		return nil, mlmderr.Internalf("ListNodeIDsUsingOptions", "query failed: %v", err)
	}
	return rs, nil
}

func joinInt64s(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
