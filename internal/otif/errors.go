package otif

import (
	"fmt"
	"strings"
)

// SchemaError reports required canonical columns that are absent after
// header normalization. It is fatal: no row-level work happens once the
// schema check fails.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input missing required columns after normalization: %s (columns found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// UnresolvedTypesError reports material types present in the data that
// have no lead-time rule and are not PPM, when no unknown-type default
// was configured. Computation is blocked until every type is resolved.
// Types may contain the empty string when rows have a blank Mat Type cell.
type UnresolvedTypesError struct {
	Types []string
}

func (e *UnresolvedTypesError) Error() string {
	return fmt.Sprintf("no lead time configured for material types: %s", strings.Join(labelBlankTypes(e.Types), ", "))
}

// labelBlankTypes substitutes a visible placeholder for empty material
// types in operator-facing messages so a blank cell is identifiable.
func labelBlankTypes(types []string) []string {
	out := make([]string, len(types))
	for i, matType := range types {
		if matType == "" {
			out[i] = "(blank)"
		} else {
			out[i] = matType
		}
	}
	return out
}
