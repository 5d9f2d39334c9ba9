package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-erp/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrForbidden)

		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
		assert.Nil(t, got.Details)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("load: %w", apperror.ErrNotFound)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
	})

	t.Run("client error exposes cause as details", func(t *testing.T) {
		err := apperror.Wrap(errors.New("start_date is empty"), apperror.CodeInvalidInput, "validation failed", http.StatusBadRequest)

		got := apperror.ToHTTP(err)

		assert.Equal(t, "start_date is empty", got.Details)
	})

	t.Run("server error hides cause", func(t *testing.T) {
		err := apperror.Wrap(errors.New("pq: connection reset"), apperror.CodeLedgerCommitFailed, "ledger commit failed", http.StatusInternalServerError)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Nil(t, got.Details)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestIs(t *testing.T) {
	assert.True(t, apperror.Is(apperror.ErrForbidden, apperror.CodeForbidden))
	assert.False(t, apperror.Is(apperror.ErrForbidden, apperror.CodeNotFound))
	assert.False(t, apperror.Is(errors.New("x"), apperror.CodeNotFound))
}
