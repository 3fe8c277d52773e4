package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/sgthedux/sgth-sub001/internal/middleware"
	"github.com/sgthedux/sgth-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.POST("", middleware.RBACAuthorize(rbacService, "employees", "create"), h.Create)
		employees.GET("", middleware.RBACAuthorize(rbacService, "employees", "read"), h.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employees", "read"), h.GetByID)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employees", "update"), h.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employees", "delete"), h.Delete)

		employees.POST("/:id/documents", middleware.RBACAuthorize(rbacService, "employees", "update"), h.UploadDocument)
		employees.GET("/:id/documents", middleware.RBACAuthorize(rbacService, "employees", "read"), h.ListDocuments)
	}
}
