package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	analyticsrepo "crm_backend/internal/analytics/repository"
	analyticsservice "crm_backend/internal/analytics/service"
	"crm_backend/internal/notification"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
)

// The worker process consumes the asynq queue: it renders and sends the
// weekly pipeline digest, and registers the recurring digest schedule.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	analyticsSvc := analyticsservice.New(analyticsrepo.New(pool), log)

	var sender notification.Sender
	if cfg.GetEmailEnabled() {
		sender = notification.NewSMTPSender(cfg)
	} else {
		sender = notification.NewNoopSender(log)
	}

	worker, err := scheduler.NewWorker(cfg, analyticsSvc, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize cron scheduler", "error", err)
		panic("failed to initialize cron scheduler: " + err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		cron.Run(ctx)
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	wg.Wait()
}
