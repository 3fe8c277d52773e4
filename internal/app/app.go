package app

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sgthedux/sgth-sub001/internal/middleware"
	"github.com/sgthedux/sgth-sub001/internal/shared/connection"
	"github.com/sgthedux/sgth-sub001/internal/storage"
)

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// The API keeps working without Redis, caching and idempotency
		// checks are simply skipped.
		zap.L().Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	} else {
		zap.L().Info("redis connection established")
	}

	store, err := storage.NewMinioStore(context.Background(), storage.MinioConfig{
		Endpoint:      os.Getenv("MINIO_ENDPOINT"),
		AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		Bucket:        os.Getenv("MINIO_BUCKET"),
		UseSSL:        os.Getenv("MINIO_USE_SSL") == "true",
		PublicBaseURL: os.Getenv("MINIO_PUBLIC_BASE_URL"),
	})
	if err != nil {
		return err
	}
	zap.L().Info("object storage ready")

	router.Use(middleware.RequestID())

	return registerModules(router, db, gormDB, rdb, store)
}
