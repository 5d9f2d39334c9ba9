package absence

import (
	"encoding/json"
	"net/http"
	"time"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/response"
	"go-erp/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	kind    workflow.Kind
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, kind workflow.Kind, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	name := kind.Name + ".handler"
	l := zap.L().Named(name)
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(name)
	}
	return &Handler{service: service, kind: kind, rdb: rdb, logger: l}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID:     c.GetString("user_id"),
		EmployeeID: c.GetString("employee_id"),
		Role:       workflow.ParseRole(c.GetString("role")),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	// The request scoped logger already carries request_id and user_id.
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("absence request failed",
		zap.String("kind", h.kind.Name),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotency drops the in-flight lock the Idempotency middleware
// took and, on success, stores the response for replays.
func (h *Handler) releaseIdempotency(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		defer h.rdb.Del(ctx, lk)
	}
	if resp == nil {
		return
	}
	if ck := c.GetString("idempotency_cache_key"); ck != "" {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(ctx, ck, payload, idempotencyTTL).Err()
		}
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, nil)
		response.ValidationError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), c.GetString("company_id"), actorFrom(c), req)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString("company_id"), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Transition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, nil)
		response.ValidationError(c, err)
		return
	}

	resp, err := h.service.Transition(c.Request.Context(), c.GetString("company_id"), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("company_id"), actorFrom(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true}, nil)
}
