// cmd/assessment-server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"assessment-engine/internal/advisory"
	"assessment-engine/internal/common/config"
	"assessment-engine/internal/common/database"
	"assessment-engine/internal/common/logger"
	"assessment-engine/internal/common/observability"
	"assessment-engine/internal/refdata"
	"assessment-engine/internal/scoring"
	"assessment-engine/internal/server"
	"assessment-engine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assessment server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	store, err := refdata.Load(cfg.RefData)
	if err != nil {
		zapLog.Fatal("reference data load failed", zap.Error(err))
	}
	zapLog.Info("Reference data loaded",
		zap.Strings("areas", store.AreaOrder()),
		zap.Int("questions", store.TotalQuestionCount()),
	)

	// Redis is optional. A dead cache slows us down but never stops the
	// service, so a failed ping only logs a warning.
	var cache *database.RedisClient
	if cfg.Cache.Enabled {
		cache, err = database.NewRedis(cfg.Cache.Redis)
		if err != nil {
			zapLog.Warn("redis init failed, running without cache", zap.Error(err))
			cache = nil
		} else {
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := cache.Ping(pingCtx); err != nil {
				zapLog.Warn("redis unreachable, running without cache", zap.Error(err))
				cache.Close()
				cache = nil
			}
			cancel()
		}
	}
	if cache != nil {
		defer cache.Close()
		zapLog.Info("Redis connected successfully")
	}

	engine := scoring.NewEngine(store)
	builder := advisory.NewBuilder(store, advisory.NewRandomSelector())
	generator := advisory.NewGenerator(advisory.GeneratorConfig{
		BaseURL:     cfg.APIs.GenAI.BaseURL,
		APIKey:      cfg.APIs.GenAI.APIKey,
		Timeout:     config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxRetries:  cfg.APIs.GenAI.MaxRetries,
		MaxTokens:   cfg.APIs.GenAI.MaxTokens,
		Temperature: cfg.APIs.GenAI.Temperature,
	}, log)

	svc := service.New(store, engine, builder, generator, log, obs, service.Options{
		Cache:    cache,
		CacheTTL: config.GetDuration(cfg.Cache.TTL),
	})

	srv := server.New(cfg.Server, store, svc, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("http server failed", zap.Error(err))
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Assessment server stopped")
}
