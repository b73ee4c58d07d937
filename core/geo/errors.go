package geo

import "fmt"

// ConfigurationError reports a polygon lookup that did not resolve to
// exactly one region. Zero matches and multiple matches are both fatal
// for the spatial source: silently picking "the first match" would make
// region filtering non-deterministic across environments.
type ConfigurationError struct {
	// Source identifies the backing collection (object name or path).
	Source string

	// PolygonID is the configured identifier, empty when none was set.
	PolygonID string

	// Matches is the number of polygons that matched.
	Matches int
}

func (e *ConfigurationError) Error() string {
	if e.Matches == 0 {
		if e.PolygonID == "" {
			return fmt.Sprintf("no polygon found in %s", e.Source)
		}
		return fmt.Sprintf("no polygon with id %q found in %s", e.PolygonID, e.Source)
	}
	return fmt.Sprintf("%d polygons with id %q found in %s, check the polygon_filter configuration", e.Matches, e.PolygonID, e.Source)
}
