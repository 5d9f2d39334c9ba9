package absence_test

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"testing"

	"go-erp/internal/absence"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payloadCapture struct {
	event events.AbsenceNotificationEvent
}

func (p *payloadCapture) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, &p.event) == nil
}

func TestOutboxNotifier_Notify(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n := absence.Notification{
		CompanyID: companyID,
		Kind:      "leave",
		AbsenceID: "0b8a3f7e-5f0c-4c43-9a55-0a4fd1d2c111",
		Recipient: ownerID,
		Sender:    adminID,
		EventType: events.AbsenceApproved,
		Title:     "Leave request approved",
		Message:   "Your Leave request for 2024-03-01 to 2024-03-01 was approved.",
		DeepLink:  "/leaves/0b8a3f7e-5f0c-4c43-9a55-0a4fd1d2c111",
	}

	capture := &payloadCapture{}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(sqlmock.AnyArg(), "rid-42", "leave", n.AbsenceID, events.AbsenceApproved,
			events.AbsenceNotificationTopic, capture, kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := contextutil.WithRequestID(context.Background(), "rid-42")
	notifier := absence.NewOutboxNotifier(kafka.NewOutboxRepository(db))

	require.NoError(t, notifier.Notify(ctx, n))
	assert.NoError(t, mock.ExpectationsWereMet())

	got := capture.event
	assert.NotEmpty(t, got.NotificationID)
	assert.Equal(t, "rid-42", got.RequestID)
	assert.Equal(t, ownerID, got.RecipientID)
	assert.Equal(t, adminID, got.SenderID)
	assert.Equal(t, "leave", got.RequestKind)
	assert.Equal(t, n.DeepLink, got.DeepLink)
	assert.False(t, got.OccurredAt.IsZero())
}
