package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/config"
	"github.com/seo-optimizer/competitor-dashboard/dashboard"
	"github.com/seo-optimizer/competitor-dashboard/logging"
	"github.com/seo-optimizer/competitor-dashboard/metrics"
	"github.com/seo-optimizer/competitor-dashboard/middleware"
	"github.com/seo-optimizer/competitor-dashboard/snapshot"
	"github.com/seo-optimizer/competitor-dashboard/source"
	"github.com/seo-optimizer/competitor-dashboard/stats"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Server.DevMode {
		os.Setenv(logging.ENV_DEV_MODE, "true")
	}
	gin.SetMode(cfg.Server.GinMode)

	refreshStats, err := stats.NewStorage(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize refresh statistics", zap.Error(err))
	}

	requestStats, err := logging.Initialize(filepath.Join(cfg.Storage.DataDir, "statistics.json"))
	if err != nil {
		logger.Warn("Could not load existing statistics", zap.Error(err))
	}

	store := newSnapshotStore(cfg, logger)

	loader := source.NewLoader(source.Endpoints{
		CompetitorsURL: cfg.Sheets.CompetitorsURL,
		ConfigURL:      cfg.Sheets.ConfigURL,
		Placeholders:   cfg.Sheets.Placeholders,
	}, cfg.Sheets.FetchTimeout, logger)

	service := dashboard.NewService(loader, store, refreshStats, dashboard.Options{
		Self: metrics.SelfDomains{
			Legacy:  cfg.Self.LegacyDomain,
			Current: cfg.Self.CurrentDomain,
		},
		CombinedName: cfg.Self.CombinedName,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Restore(ctx); err != nil {
		logger.Warn("Could not restore snapshot", zap.Error(err))
	}
	go service.Run(ctx, cfg.Sheets.RefreshInterval)
	go refreshStats.RunCleanup(ctx, cfg.Storage.RetainMonths, 24*time.Hour)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	r := setupRouter(service, requestStats, refreshStats, rateLimiter, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := requestStats.Save(); err != nil {
		logger.Warn("Failed to save request statistics", zap.Error(err))
	}
	if err := refreshStats.Shutdown(); err != nil {
		logger.Warn("Failed to flush refresh statistics", zap.Error(err))
	}
}

// newSnapshotStore prefers redis when configured and falls back to a file in
// the data directory
func newSnapshotStore(cfg *config.Config, logger *zap.Logger) snapshot.Store {
	if cfg.Redis.Addr != "" {
		store, err := snapshot.NewRedisStore(snapshot.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.SnapshotTTL,
		}, logger)
		if err == nil {
			return store
		}
		logger.Warn("Redis unavailable, using file snapshots", zap.Error(err))
	}

	store, err := snapshot.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		logger.Warn("Snapshots disabled", zap.Error(err))
		return nil
	}
	return store
}
