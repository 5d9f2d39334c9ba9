package notification

import (
	"context"
	"strings"
	"time"

	"go-erp/internal/events"
	notificationerrors "go-erp/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Deliver stores event in the recipient's inbox. Redelivered events are
	// ignored.
	Deliver(ctx context.Context, event events.AbsenceNotificationEvent) error
	ListMine(ctx context.Context, companyID, employeeID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, employeeID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) Deliver(ctx context.Context, event events.AbsenceNotificationEvent) error {
	n, err := fromEvent(event)
	if err != nil {
		s.logger.Warn("deliver notification rejected",
			zap.String("notification_id", event.NotificationID),
			zap.Error(err),
		)
		return err
	}

	inserted, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error("deliver notification persist failed",
			zap.String("notification_id", event.NotificationID),
			zap.Error(err),
		)
		return err
	}
	if !inserted {
		s.logger.Debug("notification already delivered", zap.String("notification_id", event.NotificationID))
		return nil
	}

	s.logger.Info("notification delivered",
		zap.String("notification_id", event.NotificationID),
		zap.String("recipient_id", event.RecipientID),
		zap.String("event_type", event.EventType),
	)
	return nil
}

func (s *service) ListMine(ctx context.Context, companyID, employeeID string, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.ListByRecipient(ctx, companyID, employeeID, unreadOnly)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, employeeID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrNotificationNotFound
	}

	affected, err := s.repo.MarkRead(ctx, companyID, employeeID, id, s.now().UTC())
	if err != nil {
		s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func fromEvent(event events.AbsenceNotificationEvent) (*Notification, error) {
	if strings.TrimSpace(event.SenderID) == "" {
		return nil, notificationerrors.ErrInvalidEvent
	}

	ids := make([]uuid.UUID, 4)
	for i, raw := range []string{event.NotificationID, event.CompanyID, event.RecipientID, event.AbsenceID} {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, notificationerrors.ErrInvalidEvent
		}
		ids[i] = parsed
	}

	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Notification{
		ID:          ids[0],
		CompanyID:   ids[1],
		RecipientID: ids[2],
		SenderID:    event.SenderID,
		AbsenceID:   ids[3],
		EventType:   event.EventType,
		RequestKind: event.RequestKind,
		Title:       event.Title,
		Message:     event.Message,
		DeepLink:    event.DeepLink,
		CreatedAt:   createdAt,
	}, nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:          n.ID.String(),
		EventType:   n.EventType,
		RequestKind: n.RequestKind,
		AbsenceID:   n.AbsenceID.String(),
		SenderID:    n.SenderID,
		Title:       n.Title,
		Message:     n.Message,
		DeepLink:    n.DeepLink,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
