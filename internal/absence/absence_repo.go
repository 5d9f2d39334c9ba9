package absence

import (
	"context"
	"database/sql"
	"time"

	"go-erp/internal/shared/dbtx"
	"go-erp/internal/workflow"

	"gorm.io/gorm"
)

// blockingStatuses are the statuses that reserve a date range against new
// requests of the same kind.
var blockingStatuses = []string{
	string(workflow.StatusPendingHR),
	string(workflow.StatusPendingAdmin),
	string(workflow.StatusApproved),
}

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, companyID, id string) (*Request, error)
	FindAll(ctx context.Context, companyID string, filter ListFilter) ([]Request, error)
	// UpdateStatus applies change only while the row is still in expected and
	// returns the number of rows written.
	UpdateStatus(ctx context.Context, companyID, id string, expected workflow.Status, change StatusChange) (int64, error)
	UpdateDetails(ctx context.Context, companyID, id string, expected workflow.Status, details Details) (int64, error)
	DeleteIfStatus(ctx context.Context, companyID, id string, statuses []workflow.Status) (int64, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID, startDate, endDate string, excludeID *string) (bool, error)
}

type repository struct {
	db   *gorm.DB
	tx   *sql.Tx
	kind workflow.Kind
}

func NewRepository(db *gorm.DB, kind workflow.Kind) Repository {
	return &repository{db: db, kind: kind}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx, kind: r.kind}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) table(ctx context.Context) *gorm.DB {
	return r.conn(ctx).Table(r.kind.Table)
}

func (r *repository) withOwner(ctx context.Context) *gorm.DB {
	return r.conn(ctx).
		Table(r.kind.Table + " AS r").
		Select("r.*, COALESCE(e.role, '') AS owner_role").
		Joins("LEFT JOIN employees e ON e.id = r.employee_id")
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.table(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.withOwner(ctx).
		Where("r.company_id = ?", companyID).
		Where("r.id = ?", id).
		Take(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAll(ctx context.Context, companyID string, filter ListFilter) ([]Request, error) {
	db := r.withOwner(ctx).Where("r.company_id = ?", companyID)

	if filter.OwnerID != "" {
		db = db.Where("r.employee_id = ?", filter.OwnerID)
	}
	if filter.HideAdminOwned {
		if filter.ViewerID != "" {
			db = db.Where("(e.role IS NULL OR e.role <> ? OR r.employee_id = ?)", string(workflow.RoleAdmin), filter.ViewerID)
		} else {
			db = db.Where("(e.role IS NULL OR e.role <> ?)", string(workflow.RoleAdmin))
		}
	}
	if filter.Status != "" {
		db = db.Where("r.status = ?", filter.Status)
	}

	var requests []Request
	err := db.Order("r.start_date DESC").Order("r.created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id string, expected workflow.Status, change StatusChange) (int64, error) {
	updates := map[string]any{
		"status":     string(change.To),
		"updated_at": time.Now(),
	}
	if change.Notes != nil {
		updates["notes"] = *change.Notes
	}
	if change.ApprovedBy != nil {
		updates["approved_by"] = *change.ApprovedBy
	}
	if change.ApprovalDate != nil {
		updates["approval_date"] = *change.ApprovalDate
	}

	res := r.table(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", string(expected)).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateDetails(ctx context.Context, companyID, id string, expected workflow.Status, details Details) (int64, error) {
	res := r.table(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", string(expected)).
		Updates(map[string]any{
			"category":   details.Category,
			"start_date": details.StartDate,
			"end_date":   details.EndDate,
			"total_days": details.TotalDays,
			"reason":     details.Reason,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteIfStatus(ctx context.Context, companyID, id string, statuses []workflow.Status) (int64, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	res := r.table(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status IN ?", values).
		Delete(&Request{})
	return res.RowsAffected, res.Error
}

// HasOverlappingPeriod compares dates as YYYY-MM-DD text, which orders the
// same way as the dates themselves.
func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID, startDate, endDate string, excludeID *string) (bool, error) {
	db := r.table(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", blockingStatuses).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
