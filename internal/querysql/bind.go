// Package querysql binds a querycfg.Template's numbered placeholders
// to concrete argument values, producing the literal SQL string the
// dialect driver executes (spec §4.3). Binding is purely textual:
// there is no driver-level parameter passing, because the catalog's
// templates are shared verbatim across dialects and some of the
// constructs they build (IN lists, JSON blobs) don't map cleanly onto
// a single "?" placeholder anyway.
package querysql

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

// Escaper quotes and escapes a string literal for one dialect, e.g.
// doubling embedded single quotes. Implemented by internal/dbdriver.
type Escaper interface {
	EscapeString(s string) string
}

// Bind substitutes $0..$9 in tmpl.SQL with args, in order, returning
// the literal SQL text to execute. len(args) must equal
// tmpl.ParameterNum exactly — a mismatch is an InvalidArgument, never
// a panic, since args are ultimately caller-supplied.
func Bind(tmpl querycfg.Template, esc Escaper, args ...any) (string, error) {
	if len(args) != tmpl.ParameterNum {
		return "", mlmderr.InvalidArgumentf("querysql.Bind", "template expects %d parameters, got %d", tmpl.ParameterNum, len(args))
	}

	// Render every literal first, then substitute all tokens in a
	// single pass over the original template: substituting one token
	// at a time into the progressively-mutated string would let a
	// bound string literal containing another token's text (e.g. a
	// Name of "widget$1") get re-matched and corrupted by a later
	// iteration.
	oldnew := make([]string, 0, 2*len(args))
	for i, arg := range args {
		lit, err := literal(esc, arg)
		if err != nil {
			return "", mlmderr.Wrap(mlmderr.InvalidArgument, "querysql.Bind", "cannot render bound argument", err)
		}
		oldnew = append(oldnew, "$"+strconv.Itoa(i), lit)
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl.SQL), nil
}

// literal renders one bound value as it must appear in SQL text, per
// the binding rules in spec §4.3:
//   - ints and enum-backed ints: decimal, unquoted
//   - bools: 0 or 1
//   - doubles: decimal, unquoted
//   - strings: single-quoted, dialect-escaped
//   - nil: the literal null
//   - []int64 (used for IN (...) lists): comma-joined digits, unquoted
//   - structs/maps: JSON-marshaled, then treated as a string literal
func literal(esc Escaper, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case string:
		return quote(esc, x), nil
	case []int64:
		return intList(x), nil
	case []string:
		return stringList(esc, x), nil
	default:
		blob, err := json.Marshal(x)
		if err != nil {
			return "", fmt.Errorf("querysql: cannot render %T as a SQL literal: %w", v, err)
		}
		return quote(esc, string(blob)), nil
	}
}

func quote(esc Escaper, s string) string {
	if esc != nil {
		s = esc.EscapeString(s)
	}
	return "'" + s + "'"
}

// intList renders the comma-joined digits an IN ($0) placeholder
// expects when the bound value is a set of row ids — the one case
// where a single $N token expands to more than one SQL token.
func intList(ids []int64) string {
	if len(ids) == 0 {
		return "NULL" // IN (NULL) matches nothing, never a SQL syntax error
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func stringList(esc Escaper, ss []string) string {
	if len(ss) == 0 {
		return "NULL"
	}
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = quote(esc, s)
	}
	return strings.Join(parts, ", ")
}
