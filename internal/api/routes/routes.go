package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/api/handlers"
	"github.com/sijamu/backend/internal/api/middleware"
	"github.com/sijamu/backend/internal/config"
	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/metrics"
	"github.com/sijamu/backend/internal/models"
	"github.com/sijamu/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations. The
// returned export service owns the sweeper; the caller starts and stops it.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*services.ExportService, error) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.Static(services.UploadsURLPrefix, cfg.UploadDir)

	files := services.FileStore{Root: cfg.UploadDir}
	notificationService := services.NewNotificationService(db, cfg.NotifyURL)
	recordService := services.NewRecordService(db)
	evidenceService := services.NewEvidenceService(db, files)
	importService := services.NewImportService(db, notificationService)
	structureService := services.NewStructureService(db, files)

	sweepSchedule := ""
	if cfg.SweepEnabled() {
		sweepSchedule = cfg.ExportSweepSchedule
	}
	exportService, err := services.NewExportService(cfg.ExportDir, evidenceService, recordService, notificationService, sweepSchedule, cfg.ExportMaxAge)
	if err != nil {
		return nil, err
	}

	api := router.Group("/api/v1")
	api.GET("/health", handlers.NewHealthHandler(db).Check)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTSecret))

	budayaMutu := protected.Group("/budaya-mutu")
	handlers.NewRecordHandler(recordService, exportService).RegisterRoutes(budayaMutu)
	handlers.NewImportHandler(importService).RegisterRoutes(budayaMutu)
	handlers.NewStructureHandler(structureService).RegisterRoutes(budayaMutu)

	handlers.NewAccreditationHandler(evidenceService, exportService).RegisterRoutes(protected.Group("/akreditasi"))
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(protected.Group("/notifications"))

	logger.Log().WithField("routes", len(router.Routes())).Debug("routes registered")
	return exportService, nil
}
