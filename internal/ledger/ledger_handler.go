package ledger

import (
	"net/http"
	"time"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{service: service, logger: l, now: time.Now}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ledger request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMine(c *gin.Context) {
	h.getBalances(c, c.GetString("employee_id"))
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	h.getBalances(c, c.Param("employee_id"))
}

func (h *Handler) getBalances(c *gin.Context, employeeID string) {
	companyID := c.GetString("company_id")

	period, err := ParsePeriod(c.Query("period"), h.now().UTC())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Balances(c.Request.Context(), companyID, employeeID, period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
