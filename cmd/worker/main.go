package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/haulbooks/haulbooks/internal/app"
	"github.com/haulbooks/haulbooks/internal/platform/cache"
	"github.com/haulbooks/haulbooks/internal/platform/db"
	"github.com/haulbooks/haulbooks/internal/rates"
	"github.com/haulbooks/haulbooks/internal/trips"
	"github.com/haulbooks/haulbooks/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
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

	var ratesCache *rates.Cache
	if redisClient != nil {
		ratesCache = rates.NewCache(redisClient, cfg.RevenueCacheTTL)
	}
	tripsRepo := trips.NewRepository(pool)
	ratesRepo := rates.NewRepository(pool)
	ratesService := rates.NewService(ratesRepo, tripsRepo, ratesCache)

	integrityChecker := jobs.NewLedgerIntegrityChecker(pool, logger)

	integrityTask, err := jobs.NewLedgerIntegrityTask(jobs.LedgerIntegrityPayload{Repair: true})
	if err != nil {
		logger.Error("build integrity task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerIntegrity, Handler: integrityChecker.HandleTask},
			{Type: jobs.TaskRateConflictScan, Handler: jobs.NewRateConflictScanHandler(ratesService, logger)},
			{Type: jobs.TaskRevenueWarmup, Handler: jobs.NewRevenueWarmupHandler(ratesService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 1 * * *", Task: integrityTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 1 * * *", Task: jobs.NewRateConflictScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 6 * * *", Task: jobs.NewRevenueWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
