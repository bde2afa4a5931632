package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomyRioss/misstress/internal/config"
	"github.com/TomyRioss/misstress/internal/handler"
	"github.com/TomyRioss/misstress/internal/infra/cache"
	"github.com/TomyRioss/misstress/internal/infra/client"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/infra/resilience"
	"github.com/TomyRioss/misstress/internal/infra/sqlite"
	"github.com/TomyRioss/misstress/internal/period"
	"github.com/TomyRioss/misstress/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("db_path", cfg.DBPath),
		zap.String("rates_api_url", cfg.RatesAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("utc_offset_hours", cfg.UTCOffsetHours),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "misstress")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	store, err := sqlite.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	// --- Clients ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	cb := resilience.NewCircuitBreaker("rates-api")
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	rates := client.NewRatesClient(httpClient, cfg.RatesAPIURL, cb, resilienceCfg)

	// --- Cache ---
	rateCache := cache.New[float64](cfg.CacheTTL)

	// --- Services ---
	// Balance, materialization, and salary posting use the local month
	// boundary; analytics reports stay on UTC.
	localMode := period.LocalMidnight(cfg.UTCOffsetHours)

	recurringSvc := service.NewRecurringService(store, store, metrics, logger, localMode)
	salarySvc := service.NewSalaryService(store, rates, rateCache, metrics, logger, cfg.SalaryBaseUSD, localMode)

	svcs := handler.Services{
		Ledger:        service.NewLedgerService(store, logger),
		Recurring:     recurringSvc,
		Reports:       service.NewReportService(store, store, recurringSvc, salarySvc, metrics, logger, localMode),
		Goals:         service.NewGoalService(store, logger),
		Notifications: service.NewNotificationService(store, logger),
		Chat:          service.NewChatService(logger),
	}

	// --- Router ---
	router := handler.NewRouter(svcs, store, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
