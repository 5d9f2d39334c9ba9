package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	SenderID    string    `gorm:"type:varchar(64);not null"`
	EventType   string    `gorm:"type:varchar(50);not null"`
	RequestKind string    `gorm:"type:varchar(20);not null"`
	AbsenceID   uuid.UUID `gorm:"type:uuid;not null"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Message     string    `gorm:"type:text"`
	DeepLink    string    `gorm:"type:varchar(255)"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}
