package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commit is the idempotency record for one approved request.
type Commit struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_ledger_commits_request"`
	Kind        string          `gorm:"type:varchar(20);not null"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_commits_company"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_commits_employee"`
	Category    string          `gorm:"type:varchar(30);not null"`
	Period      int             `gorm:"type:int;not null"`
	Units       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CommittedBy string          `gorm:"type:varchar(64);not null"`
	CommittedAt time.Time       `gorm:"not null"`
}

func (Commit) TableName() string {
	return "ledger_commits"
}

// Balance is the running consumed total for one employee, category and year.
type Balance struct {
	EmployeeID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Category   string          `gorm:"type:varchar(30);primaryKey"`
	Period     int             `gorm:"type:int;primaryKey"`
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_balances_company"`
	Consumed   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	UpdatedAt  time.Time
}

func (Balance) TableName() string {
	return "ledger_balances"
}
