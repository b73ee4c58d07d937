package geo

import "geosync/core/table"

// Validator classifies point records as coordinate-valid or invalid
// under the S-JTSK convention and offers a correction transform.
//
// In S-JTSK the easting (x) is larger than the northing (y) everywhere
// in the area of interest, so a point with x <= y has its coordinates
// swapped at the source. This is a domain heuristic for this grid, not
// a general geometric rule.
type Validator struct {
	factory Factory
	xCol    string
	yCol    string
}

// NewValidator creates a validator reading coordinates from the given
// columns. Empty column names default to "x" and "y".
func NewValidator(factory Factory, xCol, yCol string) *Validator {
	if xCol == "" {
		xCol = "x"
	}
	if yCol == "" {
		yCol = "y"
	}
	return &Validator{factory: factory, xCol: xCol, yCol: yCol}
}

// Validate splits the table into coordinate-valid and invalid rows.
// Rows without geometry (absent or non-numeric coordinates) are
// excluded from both results; their exclusion is deliberate, not a
// failure, since such rows simply do not take the spatial path.
func (v *Validator) Validate(t table.Table) (valid, invalid table.Table) {
	valid = table.New(t.KeyColumn, t.Columns...)
	invalid = table.New(t.KeyColumn, t.Columns...)
	for _, row := range t.Rows {
		pt, ok := v.factory.FromRecord(row, v.xCol, v.yCol)
		if !ok {
			continue
		}
		if pt.X > pt.Y {
			valid.Append(row)
		} else {
			invalid.Append(row)
		}
	}
	return valid, invalid
}

// SwapXY returns a copy of the table with the contents of the two
// coordinate columns exchanged. The input is not mutated; geometry is
// regenerated from the swapped columns on the next read.
func (v *Validator) SwapXY(t table.Table) table.Table {
	out := table.New(t.KeyColumn, t.Columns...)
	for _, row := range t.Rows {
		swapped := row.Clone()
		swapped[v.xCol], swapped[v.yCol] = row[v.yCol], row[v.xCol]
		out.Append(swapped)
	}
	return out
}

// FilterByPolygon returns the rows whose point geometry lies within or
// on the boundary of the polygon (closed-region semantics). Rows
// without geometry are excluded first, mirroring Validate.
func (v *Validator) FilterByPolygon(t table.Table, poly Polygon) table.Table {
	out := table.New(t.KeyColumn, t.Columns...)
	for _, row := range t.Rows {
		pt, ok := v.factory.FromRecord(row, v.xCol, v.yCol)
		if !ok {
			continue
		}
		if poly.Contains(pt) {
			out.Append(row)
		}
	}
	return out
}
