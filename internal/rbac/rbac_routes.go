package rbac

import (
	"go-erp/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/permissions/me", middleware.RBACAuthorize(service, "rbac", "read"), handler.MyPermissions)
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "enforce"), handler.Enforce)
	}
}
