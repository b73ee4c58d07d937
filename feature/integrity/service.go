package integrity

import (
	"context"

	"geosync/core/geo"
	"geosync/core/storage"
	"geosync/feature/events"
	"geosync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs integrity checks over the deployment: storage, polygon
// layer and persisted tables.
type Service struct {
	client   storage.Client
	bucket   string
	db       *gorm.DB
	polygons geo.PolygonSource
	geoCfg   geo.Config
	cfg      events.Config
	logger   *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, db *gorm.DB, polygons geo.PolygonSource, geoCfg geo.Config, cfg events.Config, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		db:       db,
		polygons: polygons,
		geoCfg:   geoCfg,
		cfg:      cfg,
		logger:   logger,
	}
}

// units loads the configured source units once per check call.
func (s *Service) units() ([]events.UnitConfig, error) {
	return events.LoadUnits(s.cfg.UnitsFile)
}

// CheckStorage verifies the bucket and every configured source object,
// the polygon layer object included.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	units, err := s.units()
	if err != nil {
		return nil, err
	}

	objects := make([]string, 0, len(units)+1)
	for _, u := range units {
		objects = append(objects, u.Object)
	}
	objects = append(objects, s.geoCfg.PolygonObject)

	return checks.CheckStorage(ctx, s.client, s.bucket, objects)
}

// CheckPolygon resolves the configured filter polygon.
func (s *Service) CheckPolygon(ctx context.Context) *checks.PolygonReport {
	return checks.CheckPolygon(ctx, s.polygons, s.geoCfg.PolygonID)
}

// CheckTables inspects the persisted table of every unit.
func (s *Service) CheckTables(ctx context.Context) (map[string]checks.TableReport, error) {
	units, err := s.units()
	if err != nil {
		return nil, err
	}
	return checks.CheckTables(s.db.WithContext(ctx), units), nil
}
