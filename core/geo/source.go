package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"geosync/core/storage"
	"geosync/core/utils"

	"github.com/minio/minio-go/v7"
)

// PolygonSource resolves a reference polygon by identifier.
type PolygonSource interface {
	// Get returns the polygon with the given identifier. It fails with
	// a *ConfigurationError unless exactly one polygon matches.
	Get(ctx context.Context, polygonID string) (Polygon, error)
}

// GeoJSONSource loads polygons from a GeoJSON FeatureCollection object
// held in object storage. The collection is expected to be in the same
// reference system as record geometry.
type GeoJSONSource struct {
	client     storage.Client
	bucket     string
	objectName string

	// IDProperty is the feature property holding the polygon
	// identifier (e.g. "NAZEV" for district names).
	IDProperty string
}

// NewGeoJSONSource creates a polygon source backed by a storage object.
func NewGeoJSONSource(client storage.Client, bucket, objectName, idProperty string) *GeoJSONSource {
	return &GeoJSONSource{
		client:     client,
		bucket:     bucket,
		objectName: objectName,
		IDProperty: idProperty,
	}
}

// geoJSON mirrors the subset of the GeoJSON structure we read.
type geoJSON struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	// Top-level geometry fields for bare Feature/Polygon documents.
	Properties  map[string]any   `json:"properties"`
	Geometry    *geoJSONGeometry `json:"geometry"`
	Coordinates json.RawMessage  `json:"coordinates"`
}

type geoJSONFeature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Get implements PolygonSource. With an empty polygonID the collection
// must contain exactly one polygon; with an identifier configured,
// exactly one feature must carry it. Anything else is a
// *ConfigurationError.
func (s *GeoJSONSource) Get(ctx context.Context, polygonID string) (Polygon, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName, minio.GetObjectOptions{})
	if err != nil {
		return Polygon{}, fmt.Errorf("failed to get polygon object %s: %w", s.objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Polygon{}, fmt.Errorf("failed to read polygon object %s: %w", s.objectName, err)
	}

	var doc geoJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return Polygon{}, fmt.Errorf("failed to parse polygon object %s: %w", s.objectName, err)
	}

	features := doc.Features
	if len(features) == 0 && doc.Geometry != nil {
		// Bare Feature document
		features = []geoJSONFeature{{Properties: doc.Properties, Geometry: *doc.Geometry}}
	}
	if len(features) == 0 && doc.Type == "Polygon" {
		// Bare geometry document
		features = []geoJSONFeature{{Geometry: geoJSONGeometry{Type: doc.Type, Coordinates: doc.Coordinates}}}
	}

	var matches []geoJSONFeature
	for _, f := range features {
		if polygonID == "" {
			matches = append(matches, f)
			continue
		}
		if utils.ToString(f.Properties[s.IDProperty]) == polygonID {
			matches = append(matches, f)
		}
	}

	if len(matches) != 1 {
		return Polygon{}, &ConfigurationError{
			Source:    s.objectName,
			PolygonID: polygonID,
			Matches:   len(matches),
		}
	}

	ring, err := outerRing(matches[0].Geometry)
	if err != nil {
		return Polygon{}, fmt.Errorf("polygon %q in %s: %w", polygonID, s.objectName, err)
	}

	return Polygon{ID: polygonID, Ring: ring}, nil
}

// outerRing extracts the outer boundary of a Polygon or MultiPolygon
// geometry. For MultiPolygon the first polygon's outer ring is used;
// region polygons in practice carry a single part.
func outerRing(g geoJSONGeometry) ([]Point, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("invalid polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		return ringPoints(rings[0]), nil
	case "MultiPolygon":
		var polys [][][][2]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("invalid multipolygon coordinates: %w", err)
		}
		if len(polys) == 0 || len(polys[0]) == 0 {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		return ringPoints(polys[0][0]), nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func ringPoints(coords [][2]float64) []Point {
	ring := make([]Point, 0, len(coords))
	for _, c := range coords {
		ring = append(ring, Point{X: c[0], Y: c[1]})
	}
	return ring
}
