package integrity

import (
	"geosync/core/geo"
	"geosync/core/storage"
	"geosync/feature/events"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature.
func NewFeature(client storage.Client, bucket string, db *gorm.DB, polygons geo.PolygonSource, geoCfg geo.Config, cfg events.Config, logger *zap.Logger) *Feature {
	svc := NewService(client, bucket, db, polygons, geoCfg, cfg, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the check service for command-line use.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
