package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-erp/internal/events"
	notificationerrors "go-erp/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// retryDelay is the pause before redelivering a message whose delivery failed.
var retryDelay = func(attempt int) time.Duration {
	d := 500 * time.Millisecond << min(attempt, 6)
	return min(d, 30*time.Second)
}

// MessageReader is the part of *kafkago.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NotificationSink stores one delivered notification.
type NotificationSink interface {
	Deliver(ctx context.Context, event events.AbsenceNotificationEvent) error
}

func ConsumeAbsenceNotifications(
	ctx context.Context,
	reader MessageReader,
	sink NotificationSink,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.absence_notification")
	log.Info("absence notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("absence notification consumer stopped")
				return
			}
			log.Error("fetch absence notification message failed", zap.Error(err))
			continue
		}

		handleNotificationMessage(ctx, reader, sink, log, msg)
	}
}

func handleNotificationMessage(
	ctx context.Context,
	reader MessageReader,
	sink NotificationSink,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.AbsenceNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode absence notification event failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	// Committing a later offset also commits this one, so a failed delivery is
	// retried in place rather than skipped.
	for attempt := 0; ; attempt++ {
		err := sink.Deliver(ctx, event)
		if err == nil {
			break
		}
		if errors.Is(err, notificationerrors.ErrInvalidEvent) {
			log.Warn("dropping malformed absence notification",
				zap.String("notification_id", event.NotificationID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			return
		}

		log.Error("deliver absence notification failed",
			zap.String("notification_id", event.NotificationID),
			zap.String("recipient_id", event.RecipientID),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			// uncommitted: the group resumes from this offset on the next start
			return
		case <-time.After(retryDelay(attempt)):
		}
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit absence notification message failed", zap.Error(err))
		return
	}

	log.Debug("absence notification consumed",
		zap.String("notification_id", event.NotificationID),
		zap.String("event_type", event.EventType),
	)
}
