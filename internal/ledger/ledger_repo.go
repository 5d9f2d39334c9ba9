package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-erp/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// InsertCommit reports false when a commit for the same request already exists.
	InsertCommit(ctx context.Context, c *Commit) (bool, error)
	IncrementBalance(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error
	FindCommitByRequest(ctx context.Context, requestID string) (*Commit, error)
	FindBalances(ctx context.Context, companyID, employeeID string, period int) ([]Balance, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) InsertCommit(ctx context.Context, c *Commit) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, mapRepositoryError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) IncrementBalance(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error {
	row := Balance{
		EmployeeID: employeeID,
		Category:   category,
		Period:     period,
		CompanyID:  companyID,
		Consumed:   units,
		UpdatedAt:  time.Now().UTC(),
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "category"}, {Name: "period"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"consumed":   gorm.Expr("ledger_balances.consumed + EXCLUDED.consumed"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&row).Error
}

func (r *repository) FindCommitByRequest(ctx context.Context, requestID string) (*Commit, error) {
	var c Commit
	err := r.conn(ctx).Where("request_id = ?", requestID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindBalances(ctx context.Context, companyID, employeeID string, period int) ([]Balance, error) {
	var balances []Balance
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period).
		Order("category ASC").
		Find(&balances).Error
	return balances, err
}
