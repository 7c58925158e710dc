package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"levelup/config"
	"levelup/internal/cache"
	"levelup/internal/engine"
	"levelup/internal/handler"
	"levelup/internal/httpserver"
	"levelup/internal/model"
	"levelup/internal/repository"
	"levelup/internal/scheduler"
	"levelup/internal/syncer"
	"levelup/pkg/db"
	"levelup/pkg/logger"
	"levelup/pkg/mq"
	redisclient "levelup/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Starting levelup server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	if err := repository.RunMigrations(ctx, cfg.DB.DSN()); err != nil {
		log.Fatal("Migrations failed", zap.Error(err))
	}
	pool, err := db.NewPool(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer pool.Close()

	// Redis
	rdb, err := redisclient.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	// MQ
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	publish := func(ctx context.Context, ev model.Event) error {
		return publisher.Publish(ctx, string(ev.Type), ev)
	}

	// Engine
	profile := model.Profile{
		UserID: cfg.User.ID,
		Name:   cfg.User.Name,
		Email:  cfg.User.Email,
	}
	store := engine.NewStore(profile, cfg.Engine.EventBuffer, log)

	habitRepo := repository.NewHabitRepository(pool, log)
	profileRepo := repository.NewProfileRepository(pool, log)
	reconciler := syncer.NewReconciler(store, habitRepo, profileRepo, publish, cfg.Engine.PersistTimeout, log)

	if err := reconciler.Bootstrap(ctx); err != nil {
		log.Fatal("Bootstrap failed", zap.Error(err))
	}

	reconcilerDone := make(chan struct{})
	go func() {
		defer close(reconcilerDone)
		reconciler.Run()
	}()
	go func() {
		for f := range reconciler.Failures() {
			log.Warn("Unresolved persistence failure; will reconcile on next fetch",
				zap.String("op", f.Op),
				zap.String("habit_id", f.Event.HabitID),
				zap.Error(f.Err),
			)
		}
	}()

	// Reminder poller
	poller := scheduler.NewPoller(store, publish, cfg.Engine.ReminderPollInterval, log)
	go poller.Run(ctx)

	// Periodic snapshot for the view layer
	snapshots := cache.NewSnapshotStore(rdb, 0, log)
	go func() {
		ticker := time.NewTicker(cfg.Engine.SnapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := snapshots.Save(ctx, store.Habits(), store.Profile()); err != nil {
					log.Warn("Snapshot save failed", zap.Error(err))
				}
			}
		}
	}()

	// HTTP
	habitHandler := handler.NewHabitHandler(store, log)
	overviewHandler := handler.NewOverviewHandler(store, log)
	router := httpserver.NewRouter(habitHandler, overviewHandler, log, pool, publisher)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}

	// Final snapshot, then stop the store so the reconciler can drain its
	// remaining persistence lanes.
	if err := snapshots.Save(shutdownCtx, store.Habits(), store.Profile()); err != nil {
		log.Warn("Final snapshot save failed", zap.Error(err))
	}
	store.Close()
	<-reconcilerDone

	log.Info("Server stopped")
}
