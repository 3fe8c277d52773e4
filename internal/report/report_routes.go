package report

import (
	"github.com/gin-gonic/gin"

	"github.com/sgthedux/sgth-sub001/internal/middleware"
	"github.com/sgthedux/sgth-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/licenses", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Export)
		reports.GET("/licenses/:id/form", middleware.RBACAuthorize(rbacService, "reports", "read"), h.FillForm)
	}
}
