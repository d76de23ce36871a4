package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fabric-artifact-manager/internal/adapters/primary/http/handlers"
	"fabric-artifact-manager/internal/adapters/primary/http/middleware"
	"fabric-artifact-manager/internal/adapters/secondary/auth"
	"fabric-artifact-manager/internal/adapters/secondary/fabric"
	"fabric-artifact-manager/internal/adapters/secondary/postgres"
	"fabric-artifact-manager/internal/adapters/secondary/powerbi"
	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/core/services"
	"fabric-artifact-manager/internal/database"
	"fabric-artifact-manager/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	settingsPath := filepath.Join(cfg.Storage.DataFolder, "settings.json")
	settings, err := config.NewStore(cfg, settingsPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	// Create database pool and run migrations
	pool, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	presetRepo := postgres.NewMappingPresetRepository(pool)
	actionLogRepo := postgres.NewActionLogRepository(pool)

	tokens := auth.NewStaticTokenSource(cfg.Vendor.APIToken)
	fabricClient := fabric.NewClient(cfg.Vendor, tokens)
	powerbiClient := powerbi.NewClient(cfg.Vendor, tokens)

	clock := domain.RealClock{}
	backups := storage.NewBackupManager(clock)

	// Core Services (Application Layer)
	artifactSvc := services.NewArtifactService(settings, fabricClient, backups, actionLogRepo, clock)
	bulkSvc := services.NewBulkService(artifactSvc)
	workspaceSvc := services.NewWorkspaceService(powerbiClient)
	gatewaySvc := services.NewGatewayService(powerbiClient)
	presetSvc := services.NewMappingPresetService(presetRepo)
	actionLogSvc := services.NewActionLogService(actionLogRepo)

	// Startup retention sweep so long-idle installs converge
	if deleted, err := artifactSvc.CleanupAllBackups(); err != nil {
		log.WithError(err).Warn("startup backup sweep failed")
	} else if deleted > 0 {
		log.WithField("deleted", deleted).Info("startup backup sweep removed expired snapshots")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(settings, tokens, artifactSvc, bulkSvc, workspaceSvc, gatewaySvc, presetSvc, actionLogSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
