package geo

import (
	"testing"

	"geosync/core/table"

	"github.com/stretchr/testify/assert"
)

// square is a unit square with an explicitly closed ring.
var square = Polygon{
	ID: "test",
	Ring: []Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
	},
}

func TestPolygonContains(t *testing.T) {
	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"interior", Point{5, 5}, true},
		{"outside", Point{15, 5}, false},
		{"on edge", Point{10, 5}, true},
		{"on vertex", Point{0, 0}, true},
		{"just outside edge", Point{10.001, 5}, false},
		{"far below", Point{5, -3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, square.Contains(tt.pt))
		})
	}
}

func TestPolygonContains_OpenRing(t *testing.T) {
	// Same square without the closing vertex.
	open := Polygon{Ring: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}

	assert.True(t, open.Contains(Point{5, 5}))
	assert.True(t, open.Contains(Point{0, 5}))
	assert.False(t, open.Contains(Point{-1, 5}))
}

func TestPolygonContains_ConcaveRegion(t *testing.T) {
	// L-shaped region; the notch is outside.
	l := Polygon{Ring: []Point{
		{0, 0}, {10, 0}, {10, 4}, {4, 4}, {4, 10}, {0, 10},
	}}

	assert.True(t, l.Contains(Point{2, 8}))
	assert.True(t, l.Contains(Point{8, 2}))
	assert.False(t, l.Contains(Point{8, 8}))
}

func TestPolygonContains_DegenerateRing(t *testing.T) {
	assert.False(t, Polygon{}.Contains(Point{0, 0}))
	assert.False(t, Polygon{Ring: []Point{{0, 0}, {1, 1}}}.Contains(Point{0, 0}))
}

func TestFilterByPolygon(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	batch := newBatch(
		table.Record{"id": 1, "x": 5.0, "y": 5.0},  // inside
		table.Record{"id": 2, "x": 20.0, "y": 5.0}, // outside
		table.Record{"id": 3, "x": 10.0, "y": 5.0}, // on boundary
		table.Record{"id": 4, "x": nil, "y": nil},  // no geometry
	)

	matched := v.FilterByPolygon(batch, square)

	assert.Equal(t, 2, matched.Len())
	assert.Equal(t, 1, matched.Rows[0]["id"])
	assert.Equal(t, 3, matched.Rows[1]["id"])
}
