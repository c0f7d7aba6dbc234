package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/apotheca/apotheca/internal/app"
	"github.com/apotheca/apotheca/internal/audit"
	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/platform/db"
	"github.com/apotheca/apotheca/jobs"
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

	auditRepo := audit.NewRepository(pool)
	// The worker records snapshots directly; routing them back through the
	// queue would just bounce the task off itself.
	recorder := audit.NewRecorder(nil, auditRepo, logger)
	snapshot := jobs.NewExpirySnapshot(catalog.NewRepository(pool), recorder, logger, nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: audit.TaskRecord, Handler: audit.NewRecordHandler(auditRepo)},
			{Type: jobs.TaskExpirySnapshot, Handler: snapshot.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ExpirySnapshotCron, Task: jobs.NewExpirySnapshotTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
