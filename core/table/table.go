package table

import (
	"geosync/core/utils"
)

// Record is a single row: a mapping from column name to scalar value.
// Coordinate columns (when present) carry the point geometry as plain
// values; geometry objects are derived from them by the geo package.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of records sharing a common column schema.
// Column order is significant for output but not for equality.
type Table struct {
	// KeyColumn is the designated primary-key column.
	// Key values are not required to be unique across rows.
	KeyColumn string

	// Columns is the ordered column schema.
	Columns []string

	// Rows holds the records in insertion order.
	Rows []Record
}

// New creates an empty table with the given key column and schema.
func New(keyColumn string, columns ...string) Table {
	return Table{
		KeyColumn: keyColumn,
		Columns:   append([]string(nil), columns...),
	}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether the schema contains the given column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the schema and backfills existing rows
// with null. Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		if _, ok := row[name]; !ok {
			row[name] = nil
		}
	}
}

// Append adds a record to the table.
func (t *Table) Append(r Record) {
	t.Rows = append(t.Rows, r)
}

// Clone returns a deep copy of the table (rows are cloned, values are not).
func (t Table) Clone() Table {
	out := Table{
		KeyColumn: t.KeyColumn,
		Columns:   append([]string(nil), t.Columns...),
		Rows:      make([]Record, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

// Key returns the canonical key value of the given row, suitable for
// map lookups. Keys from heterogeneous sources arrive as strings,
// ints or floats, so they are compared through their normalized
// string form.
func (t Table) Key(row Record) string {
	return KeyString(row[t.KeyColumn])
}

// KeySet returns the set of canonical key values present in the table.
func (t Table) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		set[t.Key(row)] = struct{}{}
	}
	return set
}

// OccurrenceIndex computes, for every row, the 0-based rank of that row
// among all rows sharing its key value, in table order. The index is
// recomputed on every call and is only meaningful within one
// reconciliation pass; it is never persisted.
func (t Table) OccurrenceIndex() []int {
	seen := make(map[string]int, len(t.Rows))
	out := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		key := t.Key(row)
		out[i] = seen[key]
		seen[key]++
	}
	return out
}

// HasDuplicateKeys reports whether any key value appears more than once.
func (t Table) HasDuplicateKeys() bool {
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := t.Key(row)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

// KeyString canonicalizes a key value for comparison across sources.
// Numeric keys are rendered without a fractional part so that int64(42),
// float64(42) and "42" all map to the same key.
func KeyString(v any) string {
	switch n := v.(type) {
	case float64:
		return utils.ToString(int64(n))
	case float32:
		return utils.ToString(int64(n))
	case nil:
		return ""
	default:
		return utils.ToString(v)
	}
}
