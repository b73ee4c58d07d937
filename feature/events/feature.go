package events

import (
	"geosync/core/geo"
	"geosync/core/storage"
	"geosync/feature/events/extract"
	"geosync/feature/events/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature wires the events feature: extractor, the shared polygon
// source, backend store factory and the workflow service.
func NewFeature(cfg Config, geoCfg geo.Config, backend string, client storage.Client, bucket string, db *gorm.DB, polygons geo.PolygonSource, logger *zap.Logger) *Feature {
	extractor := extract.NewExtractor(client, bucket, logger)

	stores := store.Factory{
		Backend: backend,
		DB:      db,
		Client:  client,
		Bucket:  bucket,
		Factory: geo.NewFactory(geoCfg.CRS),
		XColumn: geoCfg.XColumn,
		YColumn: geoCfg.YColumn,
		Logger:  logger,
	}

	svc := NewService(cfg, geoCfg, extractor, polygons, stores, db, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the workflow service for command-line use.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "events"
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
