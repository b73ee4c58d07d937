package integrity

import (
	"geosync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/polygon", h.HandlePolygonCheck)
	group.Get("/tables", h.HandleTablesCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Storage, Polygon, Tables).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if storage, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = storage
	}

	report["polygon"] = h.service.CheckPolygon(ctx)

	if tables, err := h.service.CheckTables(ctx); err != nil {
		report["tables"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["tables"] = tables
	}

	return c.JSON(report)
}

// HandleStorageCheck checks the storage bucket and source objects.
// @Summary Check Storage
// @Description Verify the bucket exists and every configured source object is reachable.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandlePolygonCheck resolves the filter polygon.
// @Summary Check Polygon
// @Description Resolve the configured filter polygon from the polygon layer.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.PolygonReport "Polygon Report"
// @Router /integrity/polygon [get]
func (h *Handler) HandlePolygonCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckPolygon(c.Context()))
}

// HandleTablesCheck inspects the persisted tables.
// @Summary Check Tables
// @Description Inspect the persisted table of every configured source unit.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]checks.TableReport "Table Reports"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/tables [get]
func (h *Handler) HandleTablesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckTables(c.Context())
	if err != nil {
		l.Error("Table check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
