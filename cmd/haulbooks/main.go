package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/haulbooks/haulbooks/internal/app"
	"github.com/haulbooks/haulbooks/internal/billing"
	"github.com/haulbooks/haulbooks/internal/contractors"
	"github.com/haulbooks/haulbooks/internal/dashboard"
	"github.com/haulbooks/haulbooks/internal/fleet"
	"github.com/haulbooks/haulbooks/internal/fuel"
	"github.com/haulbooks/haulbooks/internal/observability"
	"github.com/haulbooks/haulbooks/internal/platform/cache"
	"github.com/haulbooks/haulbooks/internal/platform/db"
	"github.com/haulbooks/haulbooks/internal/rates"
	"github.com/haulbooks/haulbooks/internal/statements"
	"github.com/haulbooks/haulbooks/internal/trips"
	"github.com/haulbooks/haulbooks/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	fleetRepo := fleet.NewRepository(pool)
	fleetService := fleet.NewService(fleetRepo)
	fleetHandler := fleet.NewHandler(logger, fleetService)

	contractorsRepo := contractors.NewRepository(pool)
	contractorsService := contractors.NewService(contractorsRepo)
	contractorsHandler := contractors.NewHandler(logger, contractorsService)

	tripsRepo := trips.NewRepository(pool)
	tripsService := trips.NewService(tripsRepo)
	tripsHandler := trips.NewHandler(logger, tripsService)

	var ratesCache *rates.Cache
	if redisClient != nil {
		ratesCache = rates.NewCache(redisClient, cfg.RevenueCacheTTL)
	}
	ratesRepo := rates.NewRepository(pool)
	ratesService := rates.NewService(ratesRepo, tripsRepo, ratesCache)
	ratesHandler := rates.NewHandler(logger, ratesService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo)
	billingHandler := billing.NewHandler(logger, billingService)

	statementsRepo := statements.NewRepository(pool)
	statementsSource := statements.NewSource(pool)
	statementsService := statements.NewService(statementsSource, statementsRepo)
	statementsHandler := statements.NewHandler(logger, statementsService)

	fuelRepo := fuel.NewRepository(pool)
	fuelService := fuel.NewService(fuelRepo)
	fuelHandler := fuel.NewHandler(logger, fuelService)

	dashboardRepo := dashboard.NewRepository(pool)
	dashboardService := dashboard.NewService(dashboardRepo, ratesService)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		FleetHandler:       fleetHandler,
		ContractorsHandler: contractorsHandler,
		DashboardHandler:   dashboardHandler,
		TripsHandler:       tripsHandler,
		RatesHandler:       ratesHandler,
		BillingHandler:     billingHandler,
		StatementsHandler:  statementsHandler,
		FuelHandler:        fuelHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
