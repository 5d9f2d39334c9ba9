package notification

import (
	"context"
	"time"

	"go-erp/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	// Create reports false when a notification with the same id was already stored.
	Create(ctx context.Context, n *Notification) (bool, error)
	ListByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(n)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ListByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		db = db.Where("read_at IS NULL")
	}

	var out []Notification
	err := db.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, recipientID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
