package events

import (
	"context"
	"fmt"
	"time"

	"geosync/core/geo"
	"geosync/core/reconcile"
	"geosync/core/table"
	"geosync/feature/events/extract"
	"geosync/feature/events/models"
	"geosync/feature/events/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the synchronization workflow: extract each source unit,
// validate and filter the spatial ones, reconcile against the persisted
// table and commit the resulting plan.
type Service struct {
	cfg       Config
	geoCfg    geo.Config
	extractor *extract.Extractor
	validator *geo.Validator
	polygons  geo.PolygonSource
	stores    store.Factory
	db        *gorm.DB
	logger    *zap.Logger
}

// NewService creates a new events service.
func NewService(cfg Config, geoCfg geo.Config, extractor *extract.Extractor, polygons geo.PolygonSource, stores store.Factory, db *gorm.DB, logger *zap.Logger) *Service {
	factory := geo.NewFactory(geoCfg.CRS)
	return &Service{
		cfg:       cfg,
		geoCfg:    geoCfg,
		extractor: extractor,
		validator: geo.NewValidator(factory, geoCfg.XColumn, geoCfg.YColumn),
		polygons:  polygons,
		stores:    stores,
		db:        db,
		logger:    logger,
	}
}

// RunOptions controls one synchronization run.
type RunOptions struct {
	// DryRun builds and reports the plans without committing anything.
	DryRun bool

	// Units restricts the run to the named units; empty runs all.
	Units []string
}

// Run executes the workflow over the configured source units.
//
// Units process independently: a failing unit is reported and the run
// moves on. Run returns an error only when configuration is unusable or
// every unit failed; a partial run returns the report with a partial
// status.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*models.RunReport, error) {
	units, err := s.selectUnits(opts.Units)
	if err != nil {
		return nil, err
	}

	report := &models.RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}

	l := s.logger.With(zap.String("run_id", report.ID))
	l.Info("Starting synchronization run",
		zap.Int("units", len(units)),
		zap.Bool("dry_run", opts.DryRun))

	// The filter polygon resolves once per run. A broken polygon layer
	// fails every spatial unit but leaves the non-spatial ones running.
	var polygon *geo.Polygon
	var polygonErr error
	if hasSpatial(units) {
		poly, err := s.polygons.Get(ctx, s.geoCfg.PolygonID)
		if err != nil {
			polygonErr = err
			l.Error("Failed to resolve filter polygon", zap.Error(err))
		} else {
			polygon = &poly
		}
	}

	for i, unit := range units {
		terminal := i == len(units)-1
		ur := s.processUnit(ctx, l, unit, polygon, polygonErr, terminal, opts.DryRun)
		report.Units = append(report.Units, ur)
	}
	report.FinishedAt = time.Now()

	inserted, updated, dropped, filtered, failed := report.Totals()
	l.Info("Synchronization run finished",
		zap.String("status", report.Status()),
		zap.Int("inserted", inserted),
		zap.Int("updated", updated),
		zap.Int("dropped", dropped),
		zap.Int("filtered", filtered),
		zap.Int("failed", failed))

	if !opts.DryRun {
		if err := s.persistRun(report); err != nil {
			l.Warn("Failed to persist run log", zap.Error(err))
		}
	}

	if len(report.Units) > 0 && report.Status() == models.StatusFailed {
		return report, fmt.Errorf("all %d units failed", len(report.Units))
	}
	return report, nil
}

// selectUnits loads the unit definitions, restricts them to the
// requested names and orders them for processing.
func (s *Service) selectUnits(names []string) ([]UnitConfig, error) {
	units, err := LoadUnits(s.cfg.UnitsFile)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no units defined in %s", s.cfg.UnitsFile)
	}

	if len(names) > 0 {
		byName := make(map[string]UnitConfig, len(units))
		for _, u := range units {
			byName[u.Name] = u
		}
		selected := make([]UnitConfig, 0, len(names))
		for _, name := range names {
			u, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown unit: %s", name)
			}
			selected = append(selected, u)
		}
		units = selected
	}

	return SortUnits(units), nil
}

func hasSpatial(units []UnitConfig) bool {
	for _, u := range units {
		if u.Spatial {
			return true
		}
	}
	return false
}

// processUnit runs one source unit end to end. Failures are captured in
// the report instead of propagating; the caller decides run-level
// consequences.
func (s *Service) processUnit(ctx context.Context, l *zap.Logger, unit UnitConfig, polygon *geo.Polygon, polygonErr error, terminal, dryRun bool) models.UnitReport {
	started := time.Now()
	ur := models.UnitReport{Unit: unit.Name, Table: unit.Table}
	ul := l.With(zap.String("unit", unit.Name))

	fail := func(err error) models.UnitReport {
		ur.Error = err.Error()
		ur.Duration = time.Since(started)
		ul.Error("Unit failed", zap.Error(err))
		return ur
	}

	if unit.Spatial && polygon == nil {
		if polygonErr != nil {
			return fail(fmt.Errorf("filter polygon unavailable: %w", polygonErr))
		}
		return fail(fmt.Errorf("filter polygon unavailable"))
	}

	batch, err := s.extractor.Extract(ctx, unit.Source())
	if err != nil {
		return fail(err)
	}
	ur.Extracted = batch.Len()

	if unit.Spatial {
		batch = s.correctAndFilter(ul, batch, *polygon, &ur)
	}

	st, err := s.stores.ForTable(unit.Table)
	if err != nil {
		return fail(err)
	}

	persisted, err := st.LoadAll(ctx, unit.KeyColumn)
	if err != nil {
		return fail(err)
	}

	plan, err := reconcile.Reconcile(persisted, batch, unit.KeyColumn)
	if err != nil {
		return fail(err)
	}
	ur.Inserted = plan.Summary.Inserts
	ur.Updated = plan.Summary.Updates
	ur.Promoted = plan.Summary.Promoted
	ur.NewColumns = plan.Summary.NewColumns

	ul.Info("Reconciliation plan built",
		zap.Int("inserts", plan.Summary.Inserts),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("promoted", plan.Summary.Promoted),
		zap.Strings("new_columns", plan.Summary.NewColumns))

	if dryRun {
		ur.Duration = time.Since(started)
		return ur
	}

	if terminal && s.cfg.LastModifyFlag != "" {
		applyLastModifyFlag(plan, s.cfg.LastModifyFlag)
	}

	if err := st.Commit(ctx, plan); err != nil {
		return fail(err)
	}

	ur.Duration = time.Since(started)
	ul.Info("Unit committed",
		zap.Int("inserted", ur.Inserted),
		zap.Int("updated", ur.Updated),
		zap.Duration("duration", ur.Duration))
	return ur
}

// correctAndFilter applies the coordinate pipeline of a spatial unit:
// split valid from invalid, give invalid rows exactly one swap and a
// second validation, drop what is still invalid, then keep only the
// rows inside the filter polygon.
func (s *Service) correctAndFilter(l *zap.Logger, batch table.Table, polygon geo.Polygon, ur *models.UnitReport) table.Table {
	valid, invalid := s.validator.Validate(batch)

	if invalid.Len() > 0 {
		corrected, _ := s.validator.Validate(s.validator.SwapXY(invalid))
		ur.Corrected = corrected.Len()
		for _, row := range corrected.Rows {
			valid.Append(row)
		}
	}

	ur.Dropped = batch.Len() - valid.Len()
	if ur.Dropped > 0 {
		l.Warn("Dropped records with unusable coordinates",
			zap.Int("dropped", ur.Dropped),
			zap.Int("corrected", ur.Corrected))
	}

	inside := s.validator.FilterByPolygon(valid, polygon)
	ur.Filtered = valid.Len() - inside.Len()
	if ur.Filtered > 0 {
		l.Info("Filtered records outside the region",
			zap.Int("filtered", ur.Filtered))
	}
	return inside
}

// applyLastModifyFlag marks the written rows of a plan with the
// last-modify column: zero everywhere, one on the final written row.
// Downstream database triggers fire on that final row to learn that a
// run completed.
func applyLastModifyFlag(plan *reconcile.Plan, flag string) {
	plan.Merged.AddColumn(flag)
	plan.InsertSet.AddColumn(flag)

	for i, masked := range plan.UpdateMask {
		if masked {
			plan.Merged.Rows[i][flag] = 0
		}
	}
	for _, row := range plan.InsertSet.Rows {
		row[flag] = 0
	}

	// Inserts apply after updates, so the last insert row is the last
	// row written; with no inserts it is the last masked update.
	if n := plan.InsertSet.Len(); n > 0 {
		plan.InsertSet.Rows[n-1][flag] = 1
		return
	}
	for i := len(plan.UpdateMask) - 1; i >= 0; i-- {
		if plan.UpdateMask[i] {
			plan.Merged.Rows[i][flag] = 1
			return
		}
	}
}

// persistRun writes the run log row. The log is best effort; a failure
// here never fails the run itself.
func (s *Service) persistRun(report *models.RunReport) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.AutoMigrate(&models.SyncRun{}); err != nil {
		return err
	}
	inserted, updated, dropped, filtered, failed := report.Totals()
	row := models.SyncRun{
		ID:         report.ID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Units:      len(report.Units),
		Failed:     failed,
		Inserted:   inserted,
		Updated:    updated,
		Dropped:    dropped,
		Filtered:   filtered,
		Status:     report.Status(),
	}
	return s.db.Create(&row).Error
}

// GetRuns returns the most recent run log rows.
func (s *Service) GetRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("run log requires the database backend")
	}
	if limit <= 0 {
		limit = 50
	}
	var runs []models.SyncRun
	err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// GetRun returns a single run log row by ID.
func (s *Service) GetRun(ctx context.Context, id string) (*models.SyncRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("run log requires the database backend")
	}
	var run models.SyncRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
