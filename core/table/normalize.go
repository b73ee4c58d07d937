package table

import (
	"math"
	"strings"
)

// NormalizeValue maps every flavor of missing value onto a single nil
// sentinel. Sources deliver absence in different shapes (empty CSV
// cells, NaN floats, SQL NULLs, literal "nan" strings); merges must
// never compare two different "missing" representations as unequal.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return nil
		}
		switch strings.ToLower(trimmed) {
		case "nan", "null", "none":
			return nil
		}
		return x
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return x
	case []byte:
		return NormalizeValue(string(x))
	default:
		return v
	}
}

// Normalize returns a copy of the table with every value passed through
// NormalizeValue. The input table is not mutated.
func Normalize(t Table) Table {
	out := Table{
		KeyColumn: t.KeyColumn,
		Columns:   append([]string(nil), t.Columns...),
		Rows:      make([]Record, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		norm := make(Record, len(row))
		for k, v := range row {
			norm[k] = NormalizeValue(v)
		}
		out.Rows = append(out.Rows, norm)
	}
	return out
}
