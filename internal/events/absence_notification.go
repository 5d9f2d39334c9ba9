package events

import "time"

const AbsenceNotificationTopic = "erp.absence.notification.v1"

const (
	AbsenceSubmitted = "absence.submitted"
	AbsenceEscalated = "absence.escalated"
	AbsenceApproved  = "absence.approved"
	AbsenceRejected  = "absence.rejected"
	AbsenceCancelled = "absence.cancelled"
)

// AbsenceNotificationEvent is one message for one recipient. NotificationID
// is unique per recipient and lets the consumer drop redeliveries.
type AbsenceNotificationEvent struct {
	EventType      string    `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	RequestID      string    `json:"request_id,omitempty"`
	CompanyID      string    `json:"company_id"`
	RequestKind    string    `json:"request_kind"`
	AbsenceID      string    `json:"absence_id"`
	RecipientID    string    `json:"recipient_id"`
	SenderID       string    `json:"sender_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	DeepLink       string    `json:"deep_link"`
	OccurredAt     time.Time `json:"occurred_at"`
}
