package employee

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	employeeerrors "github.com/sgthedux/sgth-sub001/internal/employee/errors"
	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
	"github.com/sgthedux/sgth-sub001/internal/shared/upload"
	"github.com/sgthedux/sgth-sub001/internal/storage"
)

const employeeAllCacheKey = "employees:all"

const MaxDocumentBytes = 10 << 20

var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error

	UploadDocument(ctx context.Context, employeeID, kind string, up DocumentUpload) (DocumentResponse, error)
	ListDocuments(ctx context.Context, employeeID string) ([]DocumentResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	store  storage.ObjectStore
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, store storage.ObjectStore, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee_service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:     db,
		repo:   repo,
		store:  store,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:             uuid.New(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		DocumentType:   strings.ToUpper(strings.TrimSpace(req.DocumentType)),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		WorkArea:       strings.TrimSpace(req.WorkArea),
		JobTitle:       strings.TrimSpace(req.JobTitle),
		HireDate:       hireDate,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, e); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateListCache(ctx)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, employeeAllCacheKey).Result()
		if err == nil {
			var resp []EmployeeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeAllCacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, employeeAllCacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	e.FirstName = strings.TrimSpace(req.FirstName)
	e.LastName = strings.TrimSpace(req.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(req.Email))
	e.Phone = strings.TrimSpace(req.Phone)
	e.WorkArea = strings.TrimSpace(req.WorkArea)
	e.JobTitle = strings.TrimSpace(req.JobTitle)
	e.HireDate = hireDate

	if err := qtx.Update(ctx, e); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateListCache(ctx)

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	docs, err := s.repo.FindDocumentsByEmployee(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.DeleteDocumentsByEmployee(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// Storage cleanup is best effort, metadata is already gone.
	for _, doc := range docs {
		if err := s.store.Remove(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("failed to remove employee document from storage",
				zap.String("storage_key", doc.StorageKey),
				zap.Error(err),
			)
		}
	}

	s.invalidateListCache(ctx)

	return nil
}

func (s *service) UploadDocument(ctx context.Context, employeeID, kind string, up DocumentUpload) (DocumentResponse, error) {
	eID, err := uuid.Parse(employeeID)
	if err != nil {
		return DocumentResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByID(ctx, employeeID); err != nil {
		return DocumentResponse{}, mapRepositoryError(err)
	}

	if up.Size > MaxDocumentBytes {
		return DocumentResponse{}, employeeerrors.ErrDocumentTooLarge
	}

	src, err := up.Open()
	if err != nil {
		return DocumentResponse{}, employeeerrors.ErrDocumentUnreadable
	}
	data, err := io.ReadAll(io.LimitReader(src, MaxDocumentBytes+1))
	src.Close()
	if err != nil {
		return DocumentResponse{}, employeeerrors.ErrDocumentUnreadable
	}
	if int64(len(data)) > MaxDocumentBytes {
		return DocumentResponse{}, employeeerrors.ErrDocumentTooLarge
	}

	contentType := upload.DetectContentType(data, up.DeclaredType)
	if !allowedDocumentTypes[contentType] {
		return DocumentResponse{}, employeeerrors.ErrDocumentTypeNotAllowed
	}

	key := upload.ObjectKey(fmt.Sprintf("employees/%s", eID), up.Name)
	publicURL, err := s.store.Put(ctx, key, contentType, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		return DocumentResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "failed to store the document", http.StatusInternalServerError)
	}

	normalizedKind := strings.ToLower(strings.TrimSpace(kind))
	if normalizedKind == "" {
		normalizedKind = "cv"
	}

	doc := &EmployeeDocument{
		ID:         uuid.New(),
		EmployeeID: eID,
		Kind:       normalizedKind,
		FileName:   up.Name,
		MimeType:   contentType,
		SizeBytes:  int64(len(data)),
		StorageKey: key,
		PublicURL:  publicURL,
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("failed to roll back storage object",
				zap.String("storage_key", key),
				zap.Error(rmErr),
			)
		}
		return DocumentResponse{}, mapRepositoryError(err)
	}

	return mapDocumentToResponse(*doc), nil
}

func (s *service) ListDocuments(ctx context.Context, employeeID string) ([]DocumentResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	docs, err := s.repo.FindDocumentsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = mapDocumentToResponse(doc)
	}
	return resp, nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, employeeAllCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate employee cache", zap.Error(err))
	}
}

func parseHireDate(v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, employeeerrors.ErrInvalidHireDate
	}
	return &d, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		DocumentType:   e.DocumentType,
		DocumentNumber: e.DocumentNumber,
		Email:          e.Email,
		Phone:          e.Phone,
		WorkArea:       e.WorkArea,
		JobTitle:       e.JobTitle,
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format("2006-01-02")
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}

func mapDocumentToResponse(doc EmployeeDocument) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID.String(),
		EmployeeID: doc.EmployeeID.String(),
		Kind:       doc.Kind,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		PublicURL:  doc.PublicURL,
		CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
	}
}
