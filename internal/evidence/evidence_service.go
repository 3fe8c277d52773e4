package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	evidenceerrors "github.com/sgthedux/sgth-sub001/internal/evidence/errors"
	"github.com/sgthedux/sgth-sub001/internal/shared/upload"
	"github.com/sgthedux/sgth-sub001/internal/storage"
)

// MaxFileBytes caps a single evidence file at 5 MiB.
const MaxFileBytes = 5 << 20

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

//go:generate mockgen -source=evidence_service.go -destination=mock/evidence_service_mock.go -package=mock
type Service interface {
	// Attach stores the accepted files for an existing request and reports
	// per-file failures alongside the successes. Only a missing request or a
	// broken existence check abort the batch.
	Attach(ctx context.Context, requestID string, files []IncomingFile) ([]EvidenceResponse, []FileError, error)
	ListByRequest(ctx context.Context, requestID string) ([]EvidenceResponse, error)
}

type service struct {
	repo   Repository
	store  storage.ObjectStore
	logger *zap.Logger
}

func NewService(repo Repository, store storage.ObjectStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("evidence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evidence.service")
	}
	return &service{repo: repo, store: store, logger: l}
}

func (s *service) Attach(ctx context.Context, requestID string, files []IncomingFile) ([]EvidenceResponse, []FileError, error) {
	requestUUID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, nil, evidenceerrors.ErrInvalidRequestID
	}

	exists, err := s.repo.RequestExists(ctx, requestID)
	if err != nil {
		s.logger.Error("attach evidence existence check failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, nil, err
	}
	if !exists {
		return nil, nil, evidenceerrors.ErrRequestNotFound
	}

	stored := make([]EvidenceResponse, 0, len(files))
	failures := make([]FileError, 0)

	for _, f := range files {
		if isPlaceholder(f) {
			continue
		}

		resp, ferr := s.storeOne(ctx, requestUUID, f)
		if ferr != nil {
			failures = append(failures, *ferr)
			continue
		}
		stored = append(stored, *resp)
	}

	s.logger.Info("attach evidence finished",
		zap.String("request_id", requestID),
		zap.Int("stored", len(stored)),
		zap.Int("failed", len(failures)),
	)

	return stored, failures, nil
}

func (s *service) ListByRequest(ctx context.Context, requestID string) ([]EvidenceResponse, error) {
	rows, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	resp := make([]EvidenceResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) storeOne(ctx context.Context, requestID uuid.UUID, f IncomingFile) (*EvidenceResponse, *FileError) {
	if f.Size > MaxFileBytes {
		return nil, &FileError{
			FileName: f.Name,
			Reason:   fmt.Sprintf("file exceeds the %d MiB size limit", MaxFileBytes>>20),
		}
	}

	reader, err := f.Open()
	if err != nil {
		return nil, &FileError{FileName: f.Name, Reason: "file could not be read"}
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, MaxFileBytes+1))
	if err != nil {
		return nil, &FileError{FileName: f.Name, Reason: "file could not be read"}
	}
	if int64(len(data)) > MaxFileBytes {
		return nil, &FileError{
			FileName: f.Name,
			Reason:   fmt.Sprintf("file exceeds the %d MiB size limit", MaxFileBytes>>20),
		}
	}

	contentType := upload.DetectContentType(data, f.DeclaredType)
	if !allowedMimeTypes[contentType] {
		return nil, &FileError{
			FileName: f.Name,
			Reason:   fmt.Sprintf("file type %s is not allowed (pdf, jpeg, png, doc, docx)", contentType),
		}
	}

	key := upload.ObjectKey(fmt.Sprintf("licenses/%s", requestID), f.Name)
	url, err := s.store.Put(ctx, key, contentType, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		s.logger.Error("evidence upload failed",
			zap.String("request_id", requestID.String()),
			zap.String("file_name", f.Name),
			zap.Error(err),
		)
		return nil, &FileError{FileName: f.Name, Reason: "upload to object storage failed"}
	}

	row := &Evidence{
		ID:               uuid.New(),
		LicenseRequestID: requestID,
		FileName:         f.Name,
		MimeType:         contentType,
		SizeBytes:        int64(len(data)),
		StorageKey:       key,
		PublicURL:        url,
	}

	// The upload is not rolled back on a metadata failure: the orphan key is
	// logged and the caller sees a per-file error.
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("evidence metadata persist failed after upload",
			zap.String("request_id", requestID.String()),
			zap.String("storage_key", key),
			zap.Error(err),
		)
		return nil, &FileError{FileName: f.Name, Reason: "file was uploaded but its record could not be saved"}
	}

	resp := mapToResponse(*row)
	return &resp, nil
}

// isPlaceholder drops the empty slots browsers submit for unused file inputs.
func isPlaceholder(f IncomingFile) bool {
	if f.Size <= 0 {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(f.Name)) {
	case "", "undefined", "null", "blob":
		return true
	}
	return false
}

func mapToResponse(e Evidence) EvidenceResponse {
	return EvidenceResponse{
		ID:               e.ID.String(),
		LicenseRequestID: e.LicenseRequestID.String(),
		FileName:         e.FileName,
		MimeType:         e.MimeType,
		SizeBytes:        e.SizeBytes,
		StorageKey:       e.StorageKey,
		URL:              e.PublicURL,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
	}
}
