package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"levelup/config"
	"levelup/internal/model"
	"levelup/internal/mqhandler"
	"levelup/internal/repository"
	"levelup/pkg/db"
	"levelup/pkg/logger"
	"levelup/pkg/mq"
	redisclient "levelup/pkg/redis"
	"levelup/pkg/util"
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

	log.Info("Starting notification worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, 48*time.Hour, log)

	pool, err := db.NewPool(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer pool.Close()

	logRepo := repository.NewNotificationLogRepository(pool, log)
	reminderHandler := mqhandler.NewReminderDueHandler(logRepo, deduper, log)
	celebrationHandler := mqhandler.NewCelebrationHandler(logRepo, deduper, log)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{"habit.reminder.due.q", string(model.EventReminderDue), reminderHandler.HandleReminderDue},
		{"streak.milestone.q", string(model.EventStreakMilestone), celebrationHandler.HandleCelebration},
		{"day.completed.q", string(model.EventDayCompleted), celebrationHandler.HandleCelebration},
	}

	for _, c := range consumers {
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
		if err != nil {
			log.Fatal("Failed to init consumer",
				zap.String("queue", c.queue),
				zap.Error(err),
			)
		}
		consumer.SetHandler(c.handler)
		defer consumer.Close()

		go func(queue string, consumer *mq.Consumer) {
			if err := consumer.StartConsuming(ctx); err != nil {
				log.Fatal("Consumer failed",
					zap.String("queue", queue),
					zap.Error(err),
				)
			}
		}(c.queue, consumer)
	}

	log.Info("All consumers started, worker is ready to process messages")

	<-ctx.Done()
	log.Info("Worker stopped")
}
