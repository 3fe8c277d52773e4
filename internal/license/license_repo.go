package license

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=license_repo.go -destination=mock/license_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LicenseRequest) error
	FindByID(ctx context.Context, id string) (*LicenseRequest, error)
	FindByRadicado(ctx context.Context, radicado string) (*LicenseRequest, error)
	FindAll(ctx context.Context) ([]LicenseRequest, error)
	Update(ctx context.Context, l *LicenseRequest) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, l *LicenseRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LicenseRequest, error) {
	var l LicenseRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByRadicado(ctx context.Context, radicado string) (*LicenseRequest, error) {
	// Exact-match, case-sensitive, as stored.
	var l LicenseRequest
	err := r.db.WithContext(ctx).First(&l, "radicado = ?", radicado).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LicenseRequest, error) {
	var rows []LicenseRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, l *LicenseRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LicenseRequest{}, "id = ?", id).Error
}
