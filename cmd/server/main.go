// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/payalnyahorobets-create/ppynlnya/internal/api"
	"github.com/payalnyahorobets-create/ppynlnya/internal/cache"
	"github.com/payalnyahorobets-create/ppynlnya/internal/config"
	"github.com/payalnyahorobets-create/ppynlnya/internal/service"
	"github.com/payalnyahorobets-create/ppynlnya/internal/snapshot"
	"github.com/payalnyahorobets-create/ppynlnya/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache unavailable, continuing without caching")
		reportCache = cache.NewNoopReportCache()
	}

	svc := service.New(cfg.App.Branches, reportCache)

	store := buildSnapshotStore(cfg)
	if store != nil {
		restoreFromSnapshot(svc, store)
	}

	router := api.NewRouter(svc, store, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("forced shutdown")
	}
}

// buildSnapshotStore selects the persistence backend from config. Returns nil
// when persistence is disabled or the backend cannot be reached; the service
// still runs, just without durable state.
func buildSnapshotStore(cfg *config.Config) snapshot.Store {
	switch cfg.Snapshot.Backend {
	case "none", "":
		return nil
	case "file":
		store, err := snapshot.NewFileStore(cfg.Snapshot.FilePath)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("file snapshot store unavailable")
			return nil
		}
		return store
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := snapshot.NewPostgresStore(ctx, cfg.Database)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("postgres snapshot store unavailable")
			return nil
		}
		return store
	case "object":
		store, err := snapshot.NewObjectStore(cfg.Object, cfg.Snapshot.ObjectKey)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("object snapshot store unavailable")
			return nil
		}
		return store
	default:
		logger.Log.Warn().Str("backend", cfg.Snapshot.Backend).Msg("unknown snapshot backend, persistence disabled")
		return nil
	}
}

func restoreFromSnapshot(svc *service.Analysis, store snapshot.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, found, err := store.Load(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("snapshot load failed, starting empty")
		return
	}
	if !found {
		logger.Log.Info().Msg("no snapshot found, starting empty")
		return
	}
	if err := svc.RestoreState(ctx, doc); err != nil {
		logger.Log.Warn().Err(err).Msg("snapshot restore failed, starting empty")
		return
	}
	logger.Log.Info().Int("bytes", len(doc)).Msg("state restored from snapshot")
}
