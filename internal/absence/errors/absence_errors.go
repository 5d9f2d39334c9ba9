package absenceerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"caller has no employee profile",
		http.StatusBadRequest,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid category",
		http.StatusBadRequest,
	)
	ErrCategoryNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"category is not accepted for this request kind",
		http.StatusBadRequest,
	)
	ErrInvalidOutcome = apperror.New(
		apperror.CodeInvalidInput,
		"outcome must be approve, reject or cancel",
		http.StatusBadRequest,
	)
	ErrOwnerMismatch = apperror.New(
		apperror.CodeForbidden,
		"requests can only be submitted for your own employee profile",
		http.StatusForbidden,
	)
	ErrNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrOverlap = apperror.New(
		apperror.CodeConflict,
		"a request already exists in an overlapping period",
		http.StatusConflict,
	)
	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorizedAction,
		"you are not allowed to perform this action on the request",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"the request is not in a state that allows this action",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the owner or an admin can change a pending request",
		http.StatusForbidden,
	)
)

// ValidationFailed reports a record that cannot be approved as stored.
func ValidationFailed(reason string, cause error) *apperror.AppError {
	return apperror.Wrap(
		cause,
		apperror.CodeInvalidInput,
		"request data is not valid: "+reason,
		http.StatusBadRequest,
	)
}

func LedgerCommitFailed(cause error) *apperror.AppError {
	return apperror.Wrap(
		cause,
		apperror.CodeLedgerCommitFailed,
		"failed to record leave balance, request left unchanged",
		http.StatusInternalServerError,
	)
}
