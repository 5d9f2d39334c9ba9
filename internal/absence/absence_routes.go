package absence

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes mounts one request kind under its path, /leaves or /wfh.
// Submit and transition are idempotent when a redis client is supplied.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}
	resource := handler.kind.Resource

	idempotent := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if redisClient == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{middleware.Idempotency(redisClient)}, handlers...)
	}

	group := r.Group(handler.kind.Path)
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, resource, "read"),
			handler.GetAll,
		)
		group.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, resource, "read"),
			handler.GetById,
		)
		group.POST("", idempotent(
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, resource, "create"),
			handler.Submit,
		)...)
		group.PUT("/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, resource, "update"),
			handler.Update,
		)
		group.POST("/:id/transition", idempotent(
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, resource, "transition"),
			handler.Transition,
		)...)
		group.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, resource, "delete"),
			handler.Delete,
		)
	}
}
