package ledgererrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrAlreadyCommitted = apperror.New(
		apperror.CodeConflict,
		"allowance already committed for this request",
		http.StatusConflict,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"category does not consume allowance",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range, expected YYYY-MM-DD with start before or equal end",
		http.StatusBadRequest,
	)
	ErrMissingCommitter = apperror.New(
		apperror.CodeInvalidInput,
		"committing actor is required",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period must be a four digit year",
		http.StatusBadRequest,
	)
)
