package ledger_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-erp/internal/ledger"
	ledgererrors "go-erp/internal/ledger/errors"
	"go-erp/internal/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedgerRepository struct {
	withTxFn              func(tx *sql.Tx) ledger.Repository
	insertCommitFn        func(ctx context.Context, c *ledger.Commit) (bool, error)
	incrementBalanceFn    func(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error
	findCommitByRequestFn func(ctx context.Context, requestID string) (*ledger.Commit, error)
	findBalancesFn        func(ctx context.Context, companyID, employeeID string, period int) ([]ledger.Balance, error)
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) ledger.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLedgerRepository) InsertCommit(ctx context.Context, c *ledger.Commit) (bool, error) {
	if f.insertCommitFn != nil {
		return f.insertCommitFn(ctx, c)
	}
	return true, nil
}

func (f *fakeLedgerRepository) IncrementBalance(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error {
	if f.incrementBalanceFn != nil {
		return f.incrementBalanceFn(ctx, companyID, employeeID, category, period, units)
	}
	return nil
}

func (f *fakeLedgerRepository) FindCommitByRequest(ctx context.Context, requestID string) (*ledger.Commit, error) {
	if f.findCommitByRequestFn != nil {
		return f.findCommitByRequestFn(ctx, requestID)
	}
	return nil, nil
}

func (f *fakeLedgerRepository) FindBalances(ctx context.Context, companyID, employeeID string, period int) ([]ledger.Balance, error) {
	if f.findBalancesFn != nil {
		return f.findBalancesFn(ctx, companyID, employeeID, period)
	}
	return nil, nil
}

type ledgerServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeLedgerRepository
	service   ledger.Service
}

const testCacheTTL = 5 * time.Minute

func setupLedgerServiceTest(t *testing.T) *ledgerServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeLedgerRepository{}

	return &ledgerServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		service:   ledger.NewService(db, repo, rdb, testCacheTTL),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func newCommitRequest(category workflow.Category, start, end string) ledger.CommitRequest {
	return ledger.CommitRequest{
		RequestID:   uuid.New().String(),
		Kind:        workflow.KindLeave.Name,
		CompanyID:   uuid.New().String(),
		EmployeeID:  uuid.New().String(),
		Category:    string(category),
		Start:       start,
		End:         end,
		CommittedBy: "u-admin",
	}
}

func TestLedgerService_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("success with own transaction", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		req := newCommitRequest(workflow.CategoryCasualFull, "2024-03-04", "2024-03-06")
		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(ledger.GetBalanceCacheKey(req.CompanyID, req.EmployeeID, 2024)).SetVal(1)

		var incremented decimal.Decimal
		deps.repo.insertCommitFn = func(ctx context.Context, c *ledger.Commit) (bool, error) {
			assert.Equal(t, req.RequestID, c.RequestID.String())
			assert.Equal(t, 2024, c.Period)
			assert.True(t, decimal.NewFromInt(3).Equal(c.Units))
			return true, nil
		}
		deps.repo.incrementBalanceFn = func(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error {
			assert.Equal(t, req.EmployeeID, employeeID.String())
			assert.Equal(t, "casual_full", category)
			incremented = units
			return nil
		}

		resp, err := deps.service.Commit(ctx, nil, req)

		assert.NoError(t, err)
		assert.Equal(t, "3.00", resp.Units)
		assert.Equal(t, 2024, resp.Period)
		assert.True(t, decimal.NewFromInt(3).Equal(incremented))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("success joins caller transaction", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		tx, err := deps.db.Begin()
		require.NoError(t, err)

		var boundTx *sql.Tx
		deps.repo.withTxFn = func(got *sql.Tx) ledger.Repository {
			boundTx = got
			return deps.repo
		}

		req := newCommitRequest(workflow.CategoryPaidHalf, "2024-12-30", "2025-01-02")
		resp, err := deps.service.Commit(ctx, tx, req)

		assert.NoError(t, err)
		assert.Same(t, tx, boundTx)
		assert.Equal(t, "2.00", resp.Units)
		assert.Equal(t, 2024, resp.Period)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative already committed", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := newCommitRequest(workflow.CategoryShort, "2024-01-10", "2024-01-10")
		recorded := ledger.Commit{
			ID:          uuid.New(),
			RequestID:   uuid.MustParse(req.RequestID),
			Kind:        req.Kind,
			EmployeeID:  uuid.MustParse(req.EmployeeID),
			Category:    req.Category,
			Period:      2024,
			Units:       decimal.NewFromFloat(0.25),
			CommittedBy: "u-first-approver",
			CommittedAt: time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC),
		}
		deps.repo.insertCommitFn = func(ctx context.Context, c *ledger.Commit) (bool, error) {
			return false, nil
		}
		deps.repo.findCommitByRequestFn = func(ctx context.Context, requestID string) (*ledger.Commit, error) {
			assert.Equal(t, req.RequestID, requestID)
			return &recorded, nil
		}
		deps.repo.incrementBalanceFn = func(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error {
			t.Fatal("balance must not move for a duplicate commit")
			return nil
		}

		resp, err := deps.service.Commit(ctx, nil, req)

		assert.ErrorIs(t, err, ledgererrors.ErrAlreadyCommitted)
		assert.Equal(t, recorded.ID.String(), resp.ID)
		assert.Equal(t, "0.25", resp.Units)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing committer", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		req := newCommitRequest(workflow.CategoryPaidFull, "2024-01-10", "2024-01-10")
		req.CommittedBy = "  "
		_, err := deps.service.Commit(ctx, nil, req)

		assert.ErrorIs(t, err, ledgererrors.ErrMissingCommitter)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non accruing category", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		for _, c := range []workflow.Category{workflow.CategoryUnpaid, workflow.CategoryOther, "sick"} {
			_, err := deps.service.Commit(ctx, nil, newCommitRequest(c, "2024-01-10", "2024-01-11"))
			assert.ErrorIs(t, err, ledgererrors.ErrInvalidCategory)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid date range", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Commit(ctx, nil, newCommitRequest(workflow.CategoryPaidFull, "2024-01-12", "2024-01-11"))
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidDateRange)

		_, err = deps.service.Commit(ctx, nil, newCommitRequest(workflow.CategoryPaidFull, "12/01/2024", "2024-01-11"))
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidDateRange)
	})

	t.Run("negative increment failure rolls back", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.incrementBalanceFn = func(ctx context.Context, companyID, employeeID uuid.UUID, category string, period int, units decimal.Decimal) error {
			return errors.New("db error")
		}

		_, err := deps.service.Commit(ctx, nil, newCommitRequest(workflow.CategoryPaidFull, "2024-01-10", "2024-01-10"))

		assert.EqualError(t, err, "db error")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLedgerService_Balances(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		cached := []ledger.BalanceResponse{{EmployeeID: employeeID, Category: "paid_full", Period: 2024, Consumed: "4.50"}}
		raw, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(ledger.GetBalanceCacheKey(companyID, employeeID, 2024)).SetVal(string(raw))
		deps.repo.findBalancesFn = func(ctx context.Context, cid, eid string, period int) ([]ledger.Balance, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		resp, err := deps.service.Balances(ctx, companyID, employeeID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		key := ledger.GetBalanceCacheKey(companyID, employeeID, 2025)
		deps.redisMock.ExpectGet(key).RedisNil()
		deps.repo.findBalancesFn = func(ctx context.Context, cid, eid string, period int) ([]ledger.Balance, error) {
			assert.Equal(t, 2025, period)
			return []ledger.Balance{{
				EmployeeID: uuid.MustParse(employeeID),
				Category:   "short",
				Period:     2025,
				Consumed:   decimal.NewFromFloat(0.75),
			}}, nil
		}
		want := []ledger.BalanceResponse{{EmployeeID: employeeID, Category: "short", Period: 2025, Consumed: "0.75"}}
		raw, _ := json.Marshal(want)
		deps.redisMock.ExpectSet(key, raw, testCacheTTL).SetVal("OK")

		resp, err := deps.service.Balances(ctx, companyID, employeeID, 2025)

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative repository error", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(ledger.GetBalanceCacheKey(companyID, employeeID, 2023)).RedisNil()
		deps.repo.findBalancesFn = func(ctx context.Context, cid, eid string, period int) ([]ledger.Balance, error) {
			return nil, errors.New("database connection lost")
		}

		resp, err := deps.service.Balances(ctx, companyID, employeeID, 2023)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("negative invalid input", func(t *testing.T) {
		deps := setupLedgerServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Balances(ctx, companyID, "not-a-uuid", 2024)
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidEmployeeID)

		_, err = deps.service.Balances(ctx, companyID, employeeID, 24)
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidPeriod)
	})
}

func TestUnits(t *testing.T) {
	day := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	assert.Equal(t, "0.25", ledger.Units(workflow.CategoryShort, day, day).StringFixed(2))
	assert.Equal(t, "1.00", ledger.Units(workflow.CategoryCasualHalf, day, nextDay).StringFixed(2))
	assert.Equal(t, "2.00", ledger.Units(workflow.CategoryPaidFull, day, nextDay).StringFixed(2))
	assert.True(t, ledger.Units(workflow.CategoryUnpaid, day, nextDay).IsZero())
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	p, err := ledger.ParsePeriod("", now)
	assert.NoError(t, err)
	assert.Equal(t, 2026, p)

	p, err = ledger.ParsePeriod("2024", now)
	assert.NoError(t, err)
	assert.Equal(t, 2024, p)

	_, err = ledger.ParsePeriod("last-year", now)
	assert.ErrorIs(t, err, ledgererrors.ErrInvalidPeriod)
}
