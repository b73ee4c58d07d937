package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"geosync/core/config"
	"geosync/core/database"
	"geosync/core/geo"
	"geosync/core/logger"
	"geosync/core/storage"
	"geosync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the deployment",
	Long: `Checks that the storage bucket and source objects are reachable, the
filter polygon resolves to exactly one region and the persisted tables
have the expected shape.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// storageCheckCmd represents the integrity storage command
var storageCheckCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the storage bucket and source objects",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// polygonCheckCmd represents the integrity polygon command
var polygonCheckCmd = &cobra.Command{
	Use:   "polygon",
	Short: "Resolve the configured filter polygon",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// tablesCheckCmd represents the integrity tables command
var tablesCheckCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect the persisted tables of every unit",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCheckCmd, polygonCheckCmd, tablesCheckCmd)
}

func runIntegrityChecks(ctx context.Context, runStorage, runPolygon, runTables bool) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create Storage Client
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Fatal("Failed to create storage client", zap.Error(err))
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		runTables = false
	} else {
		db = conn
	}

	polygons := geo.NewCachedSource(
		geo.NewGeoJSONSource(client, cfg.Storage.Bucket, cfg.Geo.PolygonObject, cfg.Geo.PolygonIDProperty),
		time.Duration(cfg.Geo.CacheTTLSeconds)*time.Second,
	)

	svc := integrity.NewService(client, cfg.Storage.Bucket, db, polygons, cfg.Geo, cfg.Sync, logg)

	if runStorage {
		logg.Info("Checking storage...")
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Fatal("Storage check failed", zap.Error(err))
		}

		if !report.Exists {
			logg.Warn("Bucket does not exist", zap.String("bucket", report.Bucket))
		} else {
			for object, or := range report.Objects {
				switch or.Status {
				case "ok":
					logg.Info("Object reachable", zap.String("object", object), zap.Int64("size", or.Size))
				case "missing":
					logg.Warn("Object missing", zap.String("object", object))
				default:
					logg.Error("Object check failed", zap.String("object", object), zap.String("error", or.Error))
				}
			}
		}
	}

	if runPolygon {
		logg.Info("Resolving filter polygon...")
		report := svc.CheckPolygon(ctx)
		switch report.Status {
		case "ok":
			logg.Info("Polygon resolved",
				zap.String("polygon", report.PolygonID),
				zap.Int("vertices", report.Vertices))
		case "misconfigured":
			logg.Warn("Polygon layer misconfigured", zap.String("error", report.Error))
		default:
			logg.Error("Polygon resolution failed", zap.String("error", report.Error))
		}
	}

	if runTables {
		logg.Info("Inspecting persisted tables...")
		report, err := svc.CheckTables(ctx)
		if err != nil {
			logg.Fatal("Table check failed", zap.Error(err))
		}

		for table, tr := range report {
			switch tr.Status {
			case "ok":
				logg.Info("Table intact", zap.String("table", table), zap.Int("columns", tr.Columns))
			case "missing":
				logg.Info("Table not created yet", zap.String("table", table))
			case "no_key":
				logg.Warn("Table is missing its key column",
					zap.String("table", table),
					zap.String("key_column", tr.KeyColumn))
			default:
				logg.Error("Table inspection failed", zap.String("table", table), zap.String("error", tr.Error))
			}
		}
	}
}
