package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-erp/internal/config"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/messaging/kafka/producer"
	"go-erp/internal/metrics"
	"go-erp/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, metrics.NewService(), logger, producer.WorkerConfig{
		PollInterval: cfg.Kafka.OutboxPollInterval,
		BatchSize:    cfg.Kafka.OutboxBatchSize,
	})

	log.Info("worker shutting down")
	return nil
}
