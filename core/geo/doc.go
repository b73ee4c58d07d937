// Package geo implements the geospatial validation and filtering layer.
//
// All geometry lives in a single planar reference system (S-JTSK,
// EPSG:5514 by default), shared between record points, the reference
// polygon, and the coordinate validation heuristic.
//
// # Validation
//
// S-JTSK eastings exceed northings everywhere in the covered area, so a
// record whose x coordinate is not larger than its y coordinate has its
// coordinates swapped at the source. Validate splits a batch along that
// rule; SwapXY produces a corrected copy for one retry. Records that
// fail validation again after the swap are genuine out-of-region points
// and are dropped by the caller with a logged count; there is no
// second swap attempt.
//
// # Region filtering
//
// FilterByPolygon keeps the records whose point lies within or on the
// boundary of the reference polygon. The polygon is resolved through a
// PolygonSource, which must match exactly one region for the configured
// identifier; zero or multiple matches abort the spatial source with a
// ConfigurationError.
package geo
