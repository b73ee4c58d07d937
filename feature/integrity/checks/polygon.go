package checks

import (
	"context"
	"errors"

	"geosync/core/geo"
)

// PolygonReport strictly types the result of a polygon layer check.
type PolygonReport struct {
	Status    string `json:"status"` // "ok", "misconfigured", "error"
	PolygonID string `json:"polygon_id,omitempty"`
	Vertices  int    `json:"vertices,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckPolygon resolves the filter polygon the way a run would. The
// layer is misconfigured when the identifier matches zero or several
// polygons; both block every spatial unit, so they surface here.
func CheckPolygon(ctx context.Context, source geo.PolygonSource, polygonID string) *PolygonReport {
	poly, err := source.Get(ctx, polygonID)
	if err != nil {
		var cfgErr *geo.ConfigurationError
		if errors.As(err, &cfgErr) {
			return &PolygonReport{Status: "misconfigured", Error: err.Error()}
		}
		return &PolygonReport{Status: "error", Error: err.Error()}
	}

	return &PolygonReport{
		Status:    "ok",
		PolygonID: poly.ID,
		Vertices:  len(poly.Ring),
	}
}
