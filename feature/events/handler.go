package events

import (
	"errors"

	"geosync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for the events feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the events routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleRunSync)
	group.Get("/runs", h.HandleGetRuns)
	group.Get("/runs/:id", h.HandleGetRun)
}

// syncRequest is the request body of a triggered run.
type syncRequest struct {
	DryRun bool     `json:"dry_run"`
	Units  []string `json:"units"`
}

// HandleRunSync triggers a synchronization run.
// @Summary Run Synchronization
// @Description Extract, validate and reconcile the configured source units. Supports a plan-only dry run and a unit subset.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body syncRequest false "Run options"
// @Success 200 {object} models.RunReport "Run Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync [post]
func (h *Handler) HandleRunSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req syncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	report, err := h.service.Run(c.Context(), RunOptions{
		DryRun: req.DryRun,
		Units:  req.Units,
	})
	if err != nil && report == nil {
		l.Error("Synchronization run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleGetRuns returns the recent run log.
// @Summary List Runs
// @Description List the most recent synchronization runs.
// @Tags sync
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of runs (default 50)"
// @Success 200 {array} models.SyncRun "Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleGetRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.GetRuns(c.Context(), c.QueryInt("limit"))
	if err != nil {
		l.Error("Run log query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(runs)
}

// HandleGetRun returns one run log row.
// @Summary Get Run
// @Description Get a single synchronization run by ID.
// @Tags sync
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.SyncRun "Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.GetRun(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "run not found",
			})
		}
		l.Error("Run log query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(run)
}
