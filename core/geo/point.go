package geo

import (
	"geosync/core/table"
	"geosync/core/utils"
)

// SJTSK is the EPSG code of the S-JTSK / Krovak East North planar
// reference system used by the Czech national grid. All geometry in
// the pipeline (points, polygons, validation heuristics) shares this
// CRS.
const SJTSK = 5514

// Point is a planar point in the configured reference system.
type Point struct {
	X float64
	Y float64
}

// Factory constructs geometry from raw coordinate values.
// It is pure; the CRS is carried only so that stores persisting
// geometry know which spatial reference to declare.
type Factory struct {
	// CRS is the EPSG code of the reference system (default SJTSK).
	CRS int
}

// NewFactory creates a geometry factory for the given EPSG code.
// A zero code falls back to S-JTSK.
func NewFactory(crs int) Factory {
	if crs == 0 {
		crs = SJTSK
	}
	return Factory{CRS: crs}
}

// FromXY builds a point from two coordinate values.
func (f Factory) FromXY(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromRecord extracts the point geometry of a record from its
// coordinate columns. ok is false when either coordinate is absent or
// not numeric; such records carry no geometry and are excluded from
// spatial validation and filtering.
func (f Factory) FromRecord(row table.Record, xCol, yCol string) (Point, bool) {
	x, okX := utils.ToFloat64(table.NormalizeValue(row[xCol]))
	y, okY := utils.ToFloat64(table.NormalizeValue(row[yCol]))
	if !okX || !okY {
		return Point{}, false
	}
	return f.FromXY(x, y), true
}
