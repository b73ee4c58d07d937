package store

import (
	"strconv"
	"strings"

	"geosync/core/database"
	"geosync/core/table"
	"geosync/core/utils"
)

// inferColumnType maps the observed values of a column onto a SQL
// column type. CSV sources deliver everything as strings, so numeric
// detection runs over the rendered values. Columns with no values at
// all default to TEXT.
func inferColumnType(t table.Table, col string) string {
	sawValue := false
	allInt := true
	allFloat := true

	for _, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		sawValue = true

		switch v.(type) {
		case int, int32, int64, uint, uint32, uint64:
			continue
		case float32, float64:
			allInt = false
			continue
		}

		s := strings.TrimSpace(utils.ToString(v))
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			continue
		}
		allInt = false
		if _, ok := utils.ToFloat64(s); ok {
			continue
		}
		allFloat = false
		break
	}

	switch {
	case !sawValue:
		return "TEXT"
	case allInt:
		return "BIGINT"
	case allFloat:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

// columnSpecs builds the DDL specs for every column of the table.
func columnSpecs(t table.Table) []database.ColumnSpec {
	specs := make([]database.ColumnSpec, 0, len(t.Columns))
	for _, col := range t.Columns {
		specs = append(specs, database.ColumnSpec{Name: col, Type: inferColumnType(t, col)})
	}
	return specs
}

// commitSpecs builds the DDL specs for a whole plan. Types are inferred
// over the merged and insert rows together, so a column that only the
// insert set populates still gets a numeric type.
func commitSpecs(merged, inserts table.Table) []database.ColumnSpec {
	combined := table.New(merged.KeyColumn, merged.Columns...)
	for _, col := range inserts.Columns {
		combined.AddColumn(col)
	}
	combined.Rows = append(combined.Rows, merged.Rows...)
	combined.Rows = append(combined.Rows, inserts.Rows...)
	return columnSpecs(combined)
}
