package license

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sgthedux/sgth-sub001/internal/middleware"
	"github.com/sgthedux/sgth-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	licenses := r.Group("/licenses")

	// Public surface: intake and tracking-code lookup work without a session.
	if redisClient != nil {
		licenses.POST("", middleware.OptionalAuth(), middleware.Idempotency(redisClient), h.Create)
	} else {
		licenses.POST("", middleware.OptionalAuth(), h.Create)
	}
	licenses.GET("/status", h.GetStatus)

	reviewed := licenses.Group("")
	reviewed.Use(middleware.AuthMiddleware())
	{
		reviewed.GET("", middleware.RBACAuthorize(rbacService, "licenses", "read"), h.GetAll)
		reviewed.PATCH("/status", middleware.RBACAuthorize(rbacService, "licenses", "review"), h.SetStatus)
		reviewed.DELETE("", middleware.RBACAuthorize(rbacService, "licenses", "delete"), h.Delete)
	}
}
