package dbtx_test

import (
	"context"
	"testing"

	"go-erp/internal/shared/dbtx"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestBind_LeavesRootHandleOnPool(t *testing.T) {
	ctx := context.Background()
	gdb, mock := newGormMock(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	rootPool := gdb.Statement.ConnPool

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE leave_requests").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)

	bound := dbtx.Bind(ctx, gdb, tx)
	assert.Same(t, tx, bound.Statement.ConnPool)
	assert.Equal(t, rootPool, gdb.Statement.ConnPool)

	require.NoError(t, bound.Exec("UPDATE leave_requests SET status = ?", "approved").Error)
	require.NoError(t, tx.Commit())

	var one int
	err = gdb.Raw("SELECT 1").Scan(&one).Error
	assert.NoError(t, err)
	assert.Equal(t, 1, one)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type ctxKey struct{}

func TestBind_NilTxUsesRoot(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, "scoped")

	bound := dbtx.Bind(ctx, gdb, nil)
	assert.Equal(t, gdb.Statement.ConnPool, bound.Statement.ConnPool)
	assert.Equal(t, ctx, bound.Statement.Context)
}
