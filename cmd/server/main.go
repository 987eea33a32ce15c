package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/handlers"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/services"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/crosstab-export-be/cmd/server/docs"
)

// @title Crosstab Export API
// @version 1.0
// @description Turns dashboard extracts into formatted spreadsheet workbooks
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("🚀 Starting crosstab-export")

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// SQLite has no migration set, build its schema from the models
	if db.Dialect == "sqlite" {
		if err := db.GORM.AutoMigrate(models.AllModels()...); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate SQLite schema")
		}
	}

	// Themes
	themes := pivot.BuiltinThemes()
	if cfg.ThemesFile != "" {
		data, err := os.ReadFile(cfg.ThemesFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.ThemesFile).Msg("Failed to read themes")
		}
		extra, err := pivot.LoadThemes(data)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.ThemesFile).Msg("Failed to load themes")
		}
		themes.Merge(extra)
	}
	if _, ok := themes.Palette(cfg.DefaultTheme); !ok {
		log.Fatal().Str("theme", cfg.DefaultTheme).Msg("Default theme is not defined")
	}

	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid EXPORT_FORMAT")
	}

	// Init storage (multi-provider support)
	provider, err := storage.NewProvider(context.Background(), storage.Options{
		Provider:            cfg.StorageProvider,
		AWSAccessKeyID:      cfg.AWSAccessKeyID,
		AWSSecretAccessKey:  cfg.AWSSecretAccessKey,
		AWSRegion:           cfg.AWSRegion,
		Bucket:              cfg.Bucket,
		S3Endpoint:          cfg.S3Endpoint,
		LocalPath:           cfg.LocalStoragePath,
		PublicBaseURL:       cfg.PublicBaseURL,
		SigningSecret:       cfg.SigningSecret,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
		CloudinaryFolder:    cfg.CloudinaryFolder,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage provider")
	}
	store := storage.NewService(provider, cfg.SignedURLTTL)
	log.Info().Str("provider", store.GetProviderName()).Msg("📦 Storage provider")

	// Init engine and services
	engine := pivot.NewEngine(log.Logger, pivot.WithStrictCells(cfg.StrictCells))
	exporter := export.NewService(engine)
	builder := services.NewWorkbookBuilder(themes, cfg.DefaultTheme)

	uploadRepo := repositories.NewUploadRepo(db.GORM)
	uploadService := services.NewUploadService(uploadRepo)
	exportService := services.NewExportService(uploadRepo, builder, exporter, store, format, cfg.ExportRetention)
	cleanupService := services.NewCleanupService(uploadRepo, store, cfg.SessionTTL)

	// Cleanup job
	jobs := scheduler.New()
	if err := jobs.Add("cleanup", cfg.CleanupSchedule, cleanupService.Job()); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cleanup")
	}
	jobs.Start()
	jobs.Run("cleanup")

	// Init handlers
	uploadHandler := handlers.NewUploadHandler(uploadService, exportService)
	healthHandler := handlers.NewHealthHandler(db.DB, store)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Crosstab Export API",
		BodyLimit: 64 * 1024 * 1024,
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Upload routes
	handlers.RegisterRoutes(app, uploadHandler, healthHandler)

	// Signed downloads for local storage
	if local, ok := provider.(*storage.LocalProvider); ok {
		app.Get(storage.FilesRoute+"*", storage.NewHandler(local).ServeFile)
	}

	go func() {
		log.Info().Msgf("✅ crosstab-export running at :%s", cfg.Port)
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down crosstab-export...")
	jobs.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("👋 Goodbye!")
}
