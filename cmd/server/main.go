package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/winmix-match-service/internal/app"
	"github.com/maxviazov/winmix-match-service/internal/config"
	"github.com/maxviazov/winmix-match-service/internal/handler"
	"github.com/maxviazov/winmix-match-service/internal/logger"
	"github.com/maxviazov/winmix-match-service/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := app.OpenSource(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Source.Driver).Msg("❌ Match source unavailable")
	}
	defer src.Close()

	limiters, err := app.OpenLimiters(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("store", cfg.RateLimit.Store).Msg("❌ Rate limiter initialization failed")
	}
	defer func() {
		if err := limiters.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("rate limit store close failed")
		}
	}()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.RateLimit.TrustedProxies); err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Invalid trusted proxies")
	}

	handler.Register(router, handler.Deps{
		Pinger:        src.Pinger,
		Matches:       service.NewMatchService(src.Matches, appLogger),
		Analytics:     service.NewAnalyticsService(appLogger),
		APILimiter:    limiters.API,
		StrictLimiter: limiters.Strict,
		Logger:        appLogger,
		Production:    cfg.App.Env == "prod",
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.App.Env).
			Str("version", cfg.App.Version).
			Str("source", src.Driver).
			Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			appLogger.Error().Err(err).Msg("❌ HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	appLogger.Info().Msg("✅ Service stopped")
}
