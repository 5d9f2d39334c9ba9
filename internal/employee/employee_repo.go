package employee

import (
	"context"
	"database/sql"

	"go-erp/internal/shared/dbtx"
	"go-erp/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	ListByRoles(ctx context.Context, companyID string, roles []string) ([]Employee, error)
	UpdateRole(ctx context.Context, companyID, id, role string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Select("id", "company_id", "full_name", "role").
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) ListByRoles(ctx context.Context, companyID string, roles []string) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("role IN ?", roles).
		Find(&employees).Error
	return employees, err
}

func (r *repository) UpdateRole(ctx context.Context, companyID, id, role string) (int64, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("role", role)
	return res.RowsAffected, res.Error
}
