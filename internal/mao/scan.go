package mao

// asInt64 and asString tolerate the handful of Go types a database/sql
// driver hands back for INTEGER and TEXT columns (int64, int, string,
// []byte, or nil for NULL) without requiring every call site to
// type-switch on driver quirks.
func asInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case nil:
		return ""
	default:
		return ""
	}
}
