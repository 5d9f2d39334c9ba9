package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "go-erp/internal/employee/errors"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/workflow"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	UpdateRole(ctx context.Context, companyID, id string, req UpdateRoleRequest) (EmployeeResponse, error)
	// EmployeeIDsByRoles lists the ids of every employee holding one of roles.
	EmployeeIDsByRoles(ctx context.Context, companyID string, roles ...workflow.Role) ([]string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	var userID *uuid.UUID
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidUserID
		}
		userID = &parsed
	}
	role := workflow.RoleEmployee
	if req.Role != "" {
		role = workflow.ParseRole(req.Role)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl := &Employee{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		UserID:    userID,
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      string(role),
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) UpdateRole(
	ctx context.Context,
	companyID, id string,
	req UpdateRoleRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee role requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
		zap.String("role", req.Role),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	role := workflow.ParseRole(req.Role)
	if string(role) != req.Role {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee role begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affected, err := qtx.UpdateRole(ctx, companyID, id, string(role))
	if err != nil {
		s.logger.Error("update employee role persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if affected == 0 {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee role commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	s.logger.Info("update employee role success",
		zap.String("employee_id", id),
		zap.String("role", string(role)),
	)
	return mapToResponse(*empl), nil
}

func (s *service) EmployeeIDsByRoles(ctx context.Context, companyID string, roles ...workflow.Role) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	raw := make([]string, len(roles))
	for i, r := range roles {
		raw[i] = string(r)
	}

	employees, err := s.repo.ListByRoles(ctx, companyID, raw)
	if err != nil {
		s.logger.Error("list employees by roles failed",
			zap.String("company_id", companyID),
			zap.Strings("roles", raw),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID.String()
	}
	return ids, nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		FullName:  e.FullName,
		Email:     e.Email,
		CompanyID: e.CompanyID.String(),
		Role:      e.Role,
	}
	if e.UserID != nil {
		resp.UserID = e.UserID.String()
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
