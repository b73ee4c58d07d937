package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"geosync/core/geo"
	"geosync/core/reconcile"
	"geosync/core/storage"
	"geosync/core/table"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// FileStore persists reconciled tables as GeoJSON objects in the
// storage bucket. Commit replaces the whole object in one PutObject
// call, so a committed plan is either fully visible or not at all.
type FileStore struct {
	client  storage.Client
	bucket  string
	table   string
	factory geo.Factory
	xCol    string
	yCol    string
	logger  *zap.Logger

	// loaded pins the persisted row count of the last LoadAll, so a
	// plan built against stale state is rejected.
	loaded int
	fresh  bool
}

// NewFileStore creates a GeoJSON-backed record store for one table.
func NewFileStore(client storage.Client, bucket, tableName string, factory geo.Factory, xCol, yCol string, logger *zap.Logger) *FileStore {
	if xCol == "" {
		xCol = "x"
	}
	if yCol == "" {
		yCol = "y"
	}
	return &FileStore{
		client:  client,
		bucket:  bucket,
		table:   tableName,
		factory: factory,
		xCol:    xCol,
		yCol:    yCol,
		logger:  logger,
	}
}

func (s *FileStore) objectName() string {
	return fmt.Sprintf("tables/%s.geojson", s.table)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// featureCollection is the persisted object layout. The columns member
// preserves column order across load and store cycles; feature order
// preserves row order.
type featureCollection struct {
	Type     string        `json:"type"`
	Columns  []string      `json:"columns"`
	Features []syncFeature `json:"features"`
}

type syncFeature struct {
	Type       string        `json:"type"`
	Geometry   *syncGeometry `json:"geometry"`
	Properties table.Record  `json:"properties"`
}

type syncGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// LoadAll implements reconcile.RecordStore. An object that does not
// exist yet loads as an empty table.
func (s *FileStore) LoadAll(ctx context.Context, keyColumn string) (table.Table, error) {
	s.fresh = false

	reader, err := s.client.GetObject(ctx, s.bucket, s.objectName(), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			s.loaded = 0
			s.fresh = true
			return table.New(keyColumn), nil
		}
		return table.Table{}, fmt.Errorf("failed to open object %s: %w", s.objectName(), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		// Minio reports a missing object on first read, not on open.
		if isNoSuchKey(err) {
			s.loaded = 0
			s.fresh = true
			return table.New(keyColumn), nil
		}
		return table.Table{}, fmt.Errorf("failed to read object %s: %w", s.objectName(), err)
	}

	var collection featureCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return table.Table{}, fmt.Errorf("failed to parse object %s: %w", s.objectName(), err)
	}

	out := table.New(keyColumn, collection.Columns...)
	for _, feature := range collection.Features {
		rec := make(table.Record, len(collection.Columns))
		for _, col := range collection.Columns {
			rec[col] = feature.Properties[col]
		}
		out.Append(rec)
	}

	s.loaded = out.Len()
	s.fresh = true
	return out, nil
}

// Commit implements reconcile.RecordStore. The merged rows and the
// insert set serialize into a fresh collection that replaces the stored
// object whole.
func (s *FileStore) Commit(ctx context.Context, plan *reconcile.Plan) error {
	if !s.fresh || len(plan.UpdateMask) != s.loaded {
		return &reconcile.StoreCommitError{
			Store: s.table,
			Err:   fmt.Errorf("plan was built against a different object state (mask %d rows, loaded %d)", len(plan.UpdateMask), s.loaded),
		}
	}

	columns := append([]string(nil), plan.Merged.Columns...)
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
	}
	for _, col := range plan.InsertSet.Columns {
		if !known[col] {
			columns = append(columns, col)
			known[col] = true
		}
	}

	collection := featureCollection{
		Type:     "FeatureCollection",
		Columns:  columns,
		Features: make([]syncFeature, 0, plan.Merged.Len()+plan.InsertSet.Len()),
	}
	for _, row := range plan.Merged.Rows {
		collection.Features = append(collection.Features, s.toFeature(row))
	}
	for _, row := range plan.InsertSet.Rows {
		collection.Features = append(collection.Features, s.toFeature(row))
	}

	body, err := json.Marshal(collection)
	if err != nil {
		return &reconcile.StoreCommitError{Store: s.table, Err: err}
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.objectName(),
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/geo+json"})
	if err != nil {
		return &reconcile.StoreCommitError{Store: s.table, Err: err}
	}

	s.logger.Info("Replaced persisted object",
		zap.String("object", s.objectName()),
		zap.Int("rows", len(collection.Features)))

	s.fresh = false
	return nil
}

// toFeature derives the point geometry from the coordinate columns;
// rows without usable coordinates serialize with a null geometry.
func (s *FileStore) toFeature(row table.Record) syncFeature {
	feature := syncFeature{Type: "Feature", Properties: row.Clone()}
	if pt, ok := s.factory.FromRecord(row, s.xCol, s.yCol); ok {
		feature.Geometry = &syncGeometry{Type: "Point", Coordinates: [2]float64{pt.X, pt.Y}}
	}
	return feature
}
