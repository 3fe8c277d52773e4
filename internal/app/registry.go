package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sgthedux/sgth-sub001/internal/auth"
	"github.com/sgthedux/sgth-sub001/internal/employee"
	"github.com/sgthedux/sgth-sub001/internal/evidence"
	"github.com/sgthedux/sgth-sub001/internal/license"
	"github.com/sgthedux/sgth-sub001/internal/messaging/kafka"
	"github.com/sgthedux/sgth-sub001/internal/rbac"
	"github.com/sgthedux/sgth-sub001/internal/rbac/infra"
	"github.com/sgthedux/sgth-sub001/internal/report"
	"github.com/sgthedux/sgth-sub001/internal/storage"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	store storage.ObjectStore,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	licenseRepo := license.NewRepository(gormDB)
	evidenceRepo := evidence.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService)
	evidenceService := evidence.NewService(evidenceRepo, store)
	licenseService := license.NewServiceWithOutbox(db, licenseRepo, evidenceRepo, outboxRepo)
	employeeService := employee.NewService(db, employeeRepo, store, rdb)

	formFiller, err := report.NewFormFiller(os.Getenv("FORM_TEMPLATE_PATH"))
	if err != nil {
		return err
	}
	reportService := report.NewService(licenseRepo, evidenceRepo, formFiller, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	licenseHandler := license.NewHandlerWithRedis(licenseService, evidenceService, rdb)
	employeeHandler := employee.NewHandler(employeeService)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		license.RegisterRoutes(api, licenseHandler, rbacService, rdb)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
