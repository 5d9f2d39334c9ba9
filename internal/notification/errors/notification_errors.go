package notificationerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrInvalidEvent = apperror.New(
		apperror.CodeInvalidInput,
		"notification event is missing required ids",
		http.StatusBadRequest,
	)
)
