package absence

import (
	"context"
	"encoding/json"
	"time"

	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/workflow"

	"github.com/google/uuid"
)

// Notification is a single message to a single recipient.
type Notification struct {
	CompanyID string
	Kind      string
	AbsenceID string
	Recipient string
	Sender    string
	EventType string
	Title     string
	Message   string
	DeepLink  string
}

//go:generate mockgen -source=absence_notifier.go -destination=mock/absence_notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// RoleDirectory resolves the employees holding any of the given roles.
type RoleDirectory interface {
	EmployeeIDsByRoles(ctx context.Context, companyID string, roles ...workflow.Role) ([]string, error)
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
	now    func() time.Time
}

// NewOutboxNotifier stores every notification as a pending outbox event. The
// relay worker publishes it to Kafka and the consumer fills the inbox.
func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox, now: time.Now}
}

func (n *outboxNotifier) Notify(ctx context.Context, msg Notification) error {
	event := events.AbsenceNotificationEvent{
		EventType:      msg.EventType,
		NotificationID: uuid.NewString(),
		RequestID:      contextutil.GetRequestID(ctx),
		CompanyID:      msg.CompanyID,
		RequestKind:    msg.Kind,
		AbsenceID:      msg.AbsenceID,
		RecipientID:    msg.Recipient,
		SenderID:       msg.Sender,
		Title:          msg.Title,
		Message:        msg.Message,
		DeepLink:       msg.DeepLink,
		OccurredAt:     n.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            event.NotificationID,
		RequestID:     event.RequestID,
		AggregateType: msg.Kind,
		AggregateID:   msg.AbsenceID,
		EventType:     msg.EventType,
		Topic:         events.AbsenceNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
