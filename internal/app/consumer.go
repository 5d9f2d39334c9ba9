package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-erp/internal/config"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka/consumer"
	"go-erp/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer stores absence notifications from Kafka into the inbox table.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

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

	notificationService := notification.NewService(notification.NewRepository(gormDB), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.AbsenceNotificationTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeAbsenceNotifications(ctx, reader, notificationService, logger)

	log.Info("consumer shutting down")
	return nil
}
