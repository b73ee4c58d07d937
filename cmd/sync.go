package cmd

import (
	"fmt"
	"time"

	"geosync/core/config"
	"geosync/core/database"
	"geosync/core/geo"
	"geosync/core/logger"
	"geosync/core/storage"
	"geosync/feature/events"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var syncDryRun bool
var syncUnits []string

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization pass over the configured sources",
	Long: `Extracts every configured source unit, validates and filters the
spatial ones, reconciles each batch against its persisted table and
commits the changes. Use --dry-run to see the plan without writing and
--unit to restrict the run to selected units.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		if !cfg.Server.IsValidBackend() {
			return fmt.Errorf("unknown store backend: %s", cfg.Server.Backend)
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			if cfg.Server.Backend == "database" {
				return fmt.Errorf("database connection required: %w", err)
			}
			logg.Warn("Optional database connection failed, run log disabled", zap.Error(err))
		} else {
			db = conn
		}

		polygons := geo.NewCachedSource(
			geo.NewGeoJSONSource(client, cfg.Storage.Bucket, cfg.Geo.PolygonObject, cfg.Geo.PolygonIDProperty),
			time.Duration(cfg.Geo.CacheTTLSeconds)*time.Second,
		)

		feature := events.NewFeature(cfg.Sync, cfg.Geo, cfg.Server.Backend, client, cfg.Storage.Bucket, db, polygons, logg)

		report, err := feature.Service().Run(cmd.Context(), events.RunOptions{
			DryRun: syncDryRun,
			Units:  syncUnits,
		})
		if err != nil && report == nil {
			return err
		}

		inserted, updated, dropped, filtered, failed := report.Totals()
		fmt.Println("\n=== Synchronization Report ===")
		fmt.Printf("Run ID: %s\n", report.ID)
		fmt.Printf("Status: %s\n", report.Status())
		fmt.Printf("Units: %d (failed: %d)\n", len(report.Units), failed)
		fmt.Printf("Inserted: %d\n", inserted)
		fmt.Printf("Updated: %d\n", updated)
		fmt.Printf("Dropped: %d\n", dropped)
		fmt.Printf("Filtered: %d\n", filtered)
		fmt.Printf("Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).String())
		if report.DryRun {
			fmt.Println("Dry run: nothing was committed.")
		}
		for _, u := range report.Units {
			if u.Failed() {
				fmt.Printf("  unit %s failed: %s\n", u.Unit, u.Error)
			}
		}

		return err
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Build and report the plans without committing")
	syncCmd.Flags().StringSliceVar(&syncUnits, "unit", nil, "Restrict the run to the named units (repeatable)")
}
