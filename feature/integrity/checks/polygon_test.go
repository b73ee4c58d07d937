package checks

import (
	"context"
	"testing"

	"geosync/core/geo"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	poly geo.Polygon
	err  error
}

func (s stubSource) Get(ctx context.Context, polygonID string) (geo.Polygon, error) {
	return s.poly, s.err
}

func TestCheckPolygon(t *testing.T) {
	t.Run("Resolves", func(t *testing.T) {
		source := stubSource{poly: geo.Polygon{
			ID:   "Brno",
			Ring: []geo.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}},
		}}

		report := CheckPolygon(context.Background(), source, "Brno")
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, "Brno", report.PolygonID)
		assert.Equal(t, 4, report.Vertices)
	})

	t.Run("Misconfigured Layer", func(t *testing.T) {
		source := stubSource{err: &geo.ConfigurationError{Source: "districts.geojson", PolygonID: "Nowhere", Matches: 0}}

		report := CheckPolygon(context.Background(), source, "Nowhere")
		assert.Equal(t, "misconfigured", report.Status)
		assert.Contains(t, report.Error, "Nowhere")
	})

	t.Run("Transport Error", func(t *testing.T) {
		source := stubSource{err: assert.AnError}

		report := CheckPolygon(context.Background(), source, "Brno")
		assert.Equal(t, "error", report.Status)
	})
}
