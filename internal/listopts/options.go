// Package listopts builds the pagination WHERE/ORDER BY/LIMIT
// fragments described in spec §4.4, and encodes/decodes the opaque
// page token that carries the cursor between calls.
package listopts

import (
	"fmt"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
)

// OrderByField is the column a list scan is ordered on.
type OrderByField int

const (
	CreateTime OrderByField = iota
	LastUpdateTime
	ID
)

func (f OrderByField) column() string {
	switch f {
	case CreateTime:
		return "create_time_since_epoch"
	case LastUpdateTime:
		return "last_update_time_since_epoch"
	case ID:
		return "id"
	default:
		return ""
	}
}

// MaxPageSize is the hard ceiling on LIMIT that every caller's
// max_result_size is clamped against, regardless of what they ask for.
const MaxPageSize = 100

// Options is ListOperationOptions (spec §4.4): the caller-supplied
// shape of one page request, before a cursor is attached.
type Options struct {
	MaxResultSize int
	OrderBy       OrderByField
	IsAsc         bool
}

// Cursor is the decoded payload of a next_page_token: where the
// previous page left off. When Options.OrderBy is ID, FieldOffset holds
// the last id and neither IDOffset nor ListedIDs is set. For a time
// field, IDOffset (with HasIDOffset) is set when the boundary value is
// not tied, and ListedIDs when multiple rows share the boundary value.
type Cursor struct {
	FieldOffset int64
	IDOffset    int64
	HasIDOffset bool
	ListedIDs   []int64
}

// op returns the inclusive boundary operator and the strict id-tiebreak
// operator for a given sort direction: ">="/">" ascending, "<="/"<"
// descending.
func op(isAsc bool) (inclusive, strict string) {
	if isAsc {
		return ">=", ">"
	}
	return "<=", "<"
}

// ThresholdClause renders the WHERE fragment that resumes a scan after
// Cursor, per spec §4.4's three cases. cursor may be nil for the first
// page, in which case the empty string is returned (no WHERE needed).
func ThresholdClause(opts Options, cursor *Cursor) string {
	if cursor == nil {
		return ""
	}
	inclusive, strict := op(opts.IsAsc)

	if opts.OrderBy == ID {
		return fmt.Sprintf("`id` %s %d", strict, cursor.FieldOffset)
	}

	col := opts.OrderBy.column()
	if cursor.HasIDOffset {
		return fmt.Sprintf("`%s` %s %d AND `id` %s %d", col, inclusive, cursor.FieldOffset, strict, cursor.IDOffset)
	}
	return fmt.Sprintf("`%s` %s %d AND `id` NOT IN (%s)", col, inclusive, cursor.FieldOffset, joinIDs(cursor.ListedIDs))
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return "NULL"
	}
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", id)
	}
	return s
}

// OrderByClause renders `ORDER BY F <dir>, id <dir>` — or just
// `ORDER BY id <dir>` when the sort field is already id.
func OrderByClause(opts Options) string {
	dir := "DESC"
	if opts.IsAsc {
		dir = "ASC"
	}
	if opts.OrderBy == ID {
		return fmt.Sprintf("ORDER BY `id` %s", dir)
	}
	return fmt.Sprintf("ORDER BY `%s` %s, `id` %s", opts.OrderBy.column(), dir, dir)
}

// LimitClause renders `LIMIT min(max_result_size, 100) + 1`, fetching
// one extra row so the caller can detect whether a next page exists.
func LimitClause(opts Options) (string, error) {
	if opts.MaxResultSize <= 0 {
		return "", mlmderr.InvalidArgumentf("listopts.LimitClause", "max_result_size must be positive, got %d", opts.MaxResultSize)
	}
	k := opts.MaxResultSize
	if k > MaxPageSize {
		k = MaxPageSize
	}
	return fmt.Sprintf("LIMIT %d", k+1), nil
}
