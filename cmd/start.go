package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geosync/core/config"
	"geosync/core/database"
	"geosync/core/geo"
	"geosync/core/loader"
	"geosync/core/logger"
	"geosync/core/middleware/auth"
	"geosync/core/middleware/rayid"
	"geosync/core/storage"

	"geosync/feature/events"
	"geosync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "geosync/docs/swagger"
)

// @title Geosync API
// @version 1.0
// @description API for traffic event synchronization and integrity checks.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidBackend() {
			logg.Fatal("Unknown store backend", zap.String("backend", cfg.Server.Backend))
		}

		// 3. Connect to Database
		// Required for the database backend; with the file backend it
		// only carries the run log, so a failure downgrades to a warning.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			if cfg.Server.Backend == "database" {
				logg.Fatal("Database connection failed", zap.Error(err))
			}
			logg.Warn("Optional database connection failed, run log disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Polygon source, shared between features
		polygons := geo.NewCachedSource(
			geo.NewGeoJSONSource(store, cfg.Storage.Bucket, cfg.Geo.PolygonObject, cfg.Geo.PolygonIDProperty),
			time.Duration(cfg.Geo.CacheTTLSeconds)*time.Second,
		)

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(events.NewFeature(cfg.Sync, cfg.Geo, cfg.Server.Backend, store, cfg.Storage.Bucket, db, polygons, logg))
		mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, db, polygons, cfg.Geo, cfg.Sync, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 2.6 Health (Public)
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
