package ledger

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetMine)
		balances.GET("/:employee_id", middleware.RBACAuthorize(rbacService, "balance", "read_all"), handler.GetByEmployee)
	}
}
