package app

import (
	"fmt"

	"go-erp/internal/absence"
	"go-erp/internal/employee"
	"go-erp/internal/ledger"
	"go-erp/internal/notification"
	"go-erp/internal/workflow"

	"gorm.io/gorm"
)

// outbox_events is written through database/sql, so it has no gorm model.
const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64) NOT NULL DEFAULT '',
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id VARCHAR(64) NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(200) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, next_retry_at, created_at);
`

// Migrate creates or updates every table the API, worker and consumer use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&ledger.Commit{},
		&ledger.Balance{},
		&notification.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, kind := range workflow.Kinds() {
		if err := db.Table(kind.Table).AutoMigrate(&absence.Request{}); err != nil {
			return fmt.Errorf("auto migrate %s: %w", kind.Table, err)
		}
	}

	if err := db.Exec(outboxDDL).Error; err != nil {
		return fmt.Errorf("migrate outbox_events: %w", err)
	}
	return nil
}
