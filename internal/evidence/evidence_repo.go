package evidence

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=evidence_repo.go -destination=mock/evidence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Evidence) error
	FindByRequestID(ctx context.Context, requestID string) ([]Evidence, error)
	DeleteByRequestID(ctx context.Context, requestID string) error
	RequestExists(ctx context.Context, requestID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Evidence) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByRequestID(ctx context.Context, requestID string) ([]Evidence, error) {
	var rows []Evidence
	err := r.db.WithContext(ctx).
		Where("license_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteByRequestID(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Where("license_request_id = ?", requestID).
		Delete(&Evidence{}).Error
}

func (r *repository) RequestExists(ctx context.Context, requestID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("license_requests").
		Where("id = ?", requestID).
		Count(&count).Error
	return count > 0, err
}
