package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ledgererrors "go-erp/internal/ledger/errors"
	"go-erp/internal/workflow"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	BalanceCacheKeyPrefix  = "ledger:balances:"
	DefaultBalanceCacheTTL = 10 * time.Minute
)

func GetBalanceCacheKey(companyID, employeeID string, period int) string {
	return fmt.Sprintf("%s%s:%s:%d", BalanceCacheKeyPrefix, companyID, employeeID, period)
}

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// Commit consumes allowance for an approved request. When tx is non-nil
	// the writes join it and the caller owns commit and rollback. A duplicate
	// request returns the recorded commit together with ErrAlreadyCommitted.
	Commit(ctx context.Context, tx *sql.Tx, req CommitRequest) (CommitResponse, error)
	InvalidateBalances(ctx context.Context, companyID, employeeID string, period int)
	Balances(ctx context.Context, companyID, employeeID string, period int) ([]BalanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, cacheTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultBalanceCacheTTL
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		cacheTTL: cacheTTL,
		logger:   l,
	}
}

// Units is the allowance consumed by an inclusive date range of category.
func Units(category workflow.Category, start, end time.Time) decimal.Decimal {
	days := workflow.InclusiveDays(start, end)
	return category.DailyUnits().Mul(decimal.NewFromInt(int64(days)))
}

// PeriodOf is the accounting period a request starting at start belongs to.
func PeriodOf(start time.Time) int {
	return start.Year()
}

func (s *service) Commit(ctx context.Context, tx *sql.Tx, req CommitRequest) (CommitResponse, error) {
	s.logger.Debug("ledger commit requested",
		zap.String("request_id", req.RequestID),
		zap.String("kind", req.Kind),
		zap.String("employee_id", req.EmployeeID),
		zap.String("category", req.Category),
	)

	c, err := buildCommit(req)
	if err != nil {
		s.logger.Warn("ledger commit validation failed",
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		return CommitResponse{}, err
	}

	ownTx := tx == nil
	if ownTx {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			s.logger.Error("ledger commit begin tx failed", zap.Error(err))
			return CommitResponse{}, err
		}
		defer tx.Rollback()
	}

	qtx := s.repo.WithTx(tx)

	inserted, err := qtx.InsertCommit(ctx, c)
	if err != nil {
		s.logger.Error("ledger commit insert failed",
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		return CommitResponse{}, err
	}
	if !inserted {
		s.logger.Warn("ledger commit already recorded", zap.String("request_id", req.RequestID))
		existing, findErr := qtx.FindCommitByRequest(ctx, req.RequestID)
		if findErr != nil || existing == nil {
			s.logger.Warn("ledger existing commit lookup failed",
				zap.String("request_id", req.RequestID),
				zap.Error(findErr),
			)
			return CommitResponse{}, ledgererrors.ErrAlreadyCommitted
		}
		return mapCommitToResponse(*existing), ledgererrors.ErrAlreadyCommitted
	}

	if err := qtx.IncrementBalance(ctx, c.CompanyID, c.EmployeeID, c.Category, c.Period, c.Units); err != nil {
		s.logger.Error("ledger balance increment failed",
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		return CommitResponse{}, err
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			s.logger.Error("ledger commit tx commit failed", zap.Error(err))
			return CommitResponse{}, err
		}
		s.InvalidateBalances(ctx, req.CompanyID, req.EmployeeID, c.Period)
	}

	s.logger.Info("ledger commit success",
		zap.String("request_id", req.RequestID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("category", c.Category),
		zap.Int("period", c.Period),
		zap.String("units", c.Units.String()),
	)
	return mapCommitToResponse(*c), nil
}

func (s *service) InvalidateBalances(ctx context.Context, companyID, employeeID string, period int) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetBalanceCacheKey(companyID, employeeID, period)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate balance cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) Balances(ctx context.Context, companyID, employeeID string, period int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, ledgererrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ledgererrors.ErrInvalidEmployeeID
	}
	if period < 1000 || period > 9999 {
		return nil, ledgererrors.ErrInvalidPeriod
	}

	cacheKey := GetBalanceCacheKey(companyID, employeeID, period)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []BalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		balances, err := s.repo.FindBalances(ctx, companyID, employeeID, period)
		if err != nil {
			return nil, err
		}

		resp := mapBalancesToResponse(balances)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, s.cacheTTL).Err(); err != nil {
					s.logger.Warn("failed to cache balances", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get balances failed",
			zap.String("employee_id", employeeID),
			zap.Int("period", period),
			zap.Error(err),
		)
		return nil, err
	}

	return v.([]BalanceResponse), nil
}

// ParsePeriod accepts a four digit year. An empty value means the current year.
func ParsePeriod(raw string, now time.Time) (int, error) {
	if raw == "" {
		return now.Year(), nil
	}
	period, err := strconv.Atoi(raw)
	if err != nil || period < 1000 || period > 9999 {
		return 0, ledgererrors.ErrInvalidPeriod
	}
	return period, nil
}

func buildCommit(req CommitRequest) (*Commit, error) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return nil, ledgererrors.ErrInvalidRequestID
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, ledgererrors.ErrInvalidCompanyID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, ledgererrors.ErrInvalidEmployeeID
	}
	committedBy := strings.TrimSpace(req.CommittedBy)
	if committedBy == "" {
		return nil, ledgererrors.ErrMissingCommitter
	}

	category := workflow.Category(req.Category)
	if !category.Valid() || !category.Accruing() {
		return nil, ledgererrors.ErrInvalidCategory
	}

	start, err := workflow.ParseDate(req.Start)
	if err != nil {
		return nil, ledgererrors.ErrInvalidDateRange
	}
	end, err := workflow.ParseDate(req.End)
	if err != nil || end.Before(start) {
		return nil, ledgererrors.ErrInvalidDateRange
	}

	return &Commit{
		ID:          uuid.New(),
		RequestID:   requestID,
		Kind:        req.Kind,
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		Category:    string(category),
		Period:      PeriodOf(start),
		Units:       Units(category, start, end),
		CommittedBy: committedBy,
		CommittedAt: time.Now().UTC(),
	}, nil
}

func mapCommitToResponse(c Commit) CommitResponse {
	return CommitResponse{
		ID:          c.ID.String(),
		RequestID:   c.RequestID.String(),
		Kind:        c.Kind,
		EmployeeID:  c.EmployeeID.String(),
		Category:    c.Category,
		Period:      c.Period,
		Units:       c.Units.StringFixed(2),
		CommittedBy: c.CommittedBy,
		CommittedAt: c.CommittedAt.Format(time.RFC3339),
	}
}

func mapBalancesToResponse(balances []Balance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = BalanceResponse{
			EmployeeID: b.EmployeeID.String(),
			Category:   b.Category,
			Period:     b.Period,
			Consumed:   b.Consumed.StringFixed(2),
		}
	}
	return resp
}
