package typecheck

import (
	"fmt"

	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/propval"
)

// ConformanceError names the single property that failed a schema
// check, so callers can report every violation in one pass instead of
// stopping at the first (spec §3.2: "node properties must conform to
// the type's declared properties").
type ConformanceError struct {
	Property string
	Reason   string
}

func (e *ConformanceError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Property, e.Reason)
}

// CheckProperties validates every declared (non-custom) property on
// node against typ's PropertyDecl schema:
//   - a declared property absent from typ's schema is unknown
//   - a declared property present but with a mismatched value case
//     (e.g. an int_value under a STRING-declared property) fails
//
// Custom properties (Property.IsCustom) are exempt: spec §3.1 lets a
// node carry arbitrary custom properties outside its type's schema.
func CheckProperties(typ *model.Type, props []model.Property) []*ConformanceError {
	schema := make(map[string]model.PropertyDecl, len(typ.Properties))
	for _, p := range typ.Properties {
		schema[p.Name] = p
	}

	var errs []*ConformanceError
	for _, p := range props {
		if p.IsCustom {
			continue
		}
		decl, ok := schema[p.Name]
		if !ok {
			errs = append(errs, &ConformanceError{Property: p.Name, Reason: "not declared on this type"})
			continue
		}
		if !propval.MatchesDataType(p.Value, decl.Type) {
			errs = append(errs, &ConformanceError{
				Property: p.Name,
				Reason:   fmt.Sprintf("declared as %s but value is %s", decl.Type, propval.Case(p.Value)),
			})
		}
	}
	return errs
}
