package license

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sgthedux/sgth-sub001/internal/events"
	"github.com/sgthedux/sgth-sub001/internal/evidence"
	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
	"github.com/sgthedux/sgth-sub001/internal/messaging/kafka"
)

//go:generate mockgen -source=license_service.go -destination=mock/license_service_mock.go -package=mock
type Service interface {
	// Create validates the intake payload, assigns the radicado and persists
	// the request with status pending. Nothing is persisted on a validation
	// failure.
	Create(ctx context.Context, ownerUserID string, req CreateLicenseRequest) (LicenseResponse, error)
	GetAll(ctx context.Context) ([]LicenseResponse, error)
	GetByRadicado(ctx context.Context, radicado string) (LicenseResponse, error)
	// SetStatus is idempotent: re-applying the current status re-stamps the
	// review timestamps. No transition graph is enforced.
	SetStatus(ctx context.Context, req SetStatusRequest) (SetStatusResult, error)
	// Delete removes the evidence rows before the request and returns the
	// storage keys so the caller can clean the object store afterwards.
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	evidenceRepo evidence.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, evidenceRepo evidence.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, evidenceRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	evidenceRepo evidence.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("license.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("license.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		evidenceRepo: evidenceRepo,
		outbox:       outboxRepo,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, ownerUserID string, req CreateLicenseRequest) (LicenseResponse, error) {
	s.logger.Debug("create license request",
		zap.String("permit_type", req.PermitType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	l, err := buildRequest(ownerUserID, req)
	if err != nil {
		s.logger.Warn("create license validation failed", zap.Error(err))
		return LicenseResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create license begin tx failed", zap.Error(err))
		return LicenseResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create license persist failed", zap.Error(err))
		return LicenseResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueSubmitted(ctx, tx, l); err != nil {
		s.logger.Error("create license outbox failed", zap.Error(err))
		return LicenseResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create license commit failed", zap.Error(err))
		return LicenseResponse{}, err
	}

	s.logger.Info("license request created",
		zap.String("request_id", l.ID.String()),
		zap.String("radicado", l.Radicado),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LicenseResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByRadicado(ctx context.Context, radicado string) (LicenseResponse, error) {
	l, err := s.repo.FindByRadicado(ctx, radicado)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LicenseResponse{}, licenseerrors.ErrRequestNotFound
		}
		return LicenseResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) SetStatus(ctx context.Context, req SetStatusRequest) (SetStatusResult, error) {
	if _, err := uuid.Parse(req.ID); err != nil {
		return SetStatusResult{}, licenseerrors.ErrInvalidRequestID
	}

	status := Status(req.Status)
	if !status.IsValid() {
		return SetStatusResult{}, licenseerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set status begin tx failed", zap.Error(err))
		return SetStatusResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SetStatusResult{}, licenseerrors.ErrRequestNotFound
		}
		return SetStatusResult{}, err
	}

	oldStatus := l.Status
	l.Status = status
	if req.Comment != nil {
		if comment := strings.TrimSpace(*req.Comment); comment != "" {
			l.HRComment = &comment
		}
	}
	now := time.Now().UTC()
	l.HRUpdatedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("set status persist failed",
			zap.String("request_id", req.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return SetStatusResult{}, err
	}

	if err := s.enqueueStatusChanged(ctx, tx, l, oldStatus); err != nil {
		s.logger.Error("set status outbox failed", zap.Error(err))
		return SetStatusResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set status commit failed", zap.Error(err))
		return SetStatusResult{}, err
	}

	s.logger.Info("license status updated",
		zap.String("request_id", req.ID),
		zap.String("radicado", l.Radicado),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)

	return SetStatusResult{
		Request: mapToResponse(*l),
		Message: fmt.Sprintf("La solicitud %s pasó al estado: %s", l.Radicado, status.Label()),
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeleteResult{}, licenseerrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeleteResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeleteResult{}, licenseerrors.ErrRequestNotFound
		}
		return DeleteResult{}, err
	}

	evidences, err := s.evidenceRepo.FindByRequestID(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	keys := make([]string, len(evidences))
	for i, e := range evidences {
		keys[i] = e.StorageKey
	}

	// Evidence rows go first so the key list survives a partial failure.
	if err := s.evidenceRepo.DeleteByRequestID(ctx, id); err != nil {
		return DeleteResult{}, err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return DeleteResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, err
	}

	s.logger.Info("license request deleted",
		zap.String("request_id", id),
		zap.String("radicado", l.Radicado),
		zap.Int("evidence_keys", len(keys)),
	)

	return DeleteResult{Deleted: true, StorageKeys: keys}, nil
}

func (s *service) enqueueSubmitted(ctx context.Context, tx *sql.Tx, l *LicenseRequest) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(events.LicenseSubmittedEvent{
		EventType:  events.EventTypeLicenseSubmitted,
		RequestID:  l.ID.String(),
		Radicado:   l.Radicado,
		PermitType: string(l.PermitType),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.NewOutboxEvent(
		ctx,
		kafka.AggregateLicenseRequest,
		l.ID.String(),
		events.EventTypeLicenseSubmitted,
		events.LicenseLifecycleTopic,
		payload,
	))
}

func (s *service) enqueueStatusChanged(ctx context.Context, tx *sql.Tx, l *LicenseRequest, oldStatus Status) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(events.LicenseStatusChangedEvent{
		EventType:  events.EventTypeLicenseStatusChanged,
		RequestID:  l.ID.String(),
		Radicado:   l.Radicado,
		OldStatus:  string(oldStatus),
		NewStatus:  string(l.Status),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.NewOutboxEvent(
		ctx,
		kafka.AggregateLicenseRequest,
		l.ID.String(),
		events.EventTypeLicenseStatusChanged,
		events.LicenseLifecycleTopic,
		payload,
	))
}

// buildRequest runs the full intake validation and assembles the entity.
func buildRequest(ownerUserID string, req CreateLicenseRequest) (*LicenseRequest, error) {
	// Binding only guarantees presence; whitespace-only values still have to
	// be rejected here.
	required := []struct {
		name  string
		value string
	}{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"document_type", req.DocumentType},
		{"document_number", req.DocumentNumber},
		{"job_title", req.JobTitle},
		{"reason", req.Reason},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, licenseerrors.RequiredField(f.name)
		}
	}

	permitType := PermitType(req.PermitType)
	if !permitType.IsValid() {
		return nil, licenseerrors.ErrInvalidPermitType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, licenseerrors.ErrInvalidDateRange
	}

	startTime, endTime, err := validateTimes(startDate, endDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var compensationDate *time.Time
	if req.CompensationDate != nil && strings.TrimSpace(*req.CompensationDate) != "" {
		d, err := parseDate(*req.CompensationDate)
		if err != nil {
			return nil, err
		}
		compensationDate = &d
	}

	var replacementName *string
	if req.RequiresReplacement {
		if req.ReplacementName == nil || strings.TrimSpace(*req.ReplacementName) == "" {
			return nil, licenseerrors.ErrReplacementNameRequired
		}
		name := strings.TrimSpace(*req.ReplacementName)
		replacementName = &name
	}

	var ownerID *uuid.UUID
	if ownerUserID != "" {
		parsed, err := uuid.Parse(ownerUserID)
		if err != nil {
			return nil, licenseerrors.ErrInvalidOwnerID
		}
		ownerID = &parsed
	}

	return &LicenseRequest{
		ID:                  uuid.New(),
		Radicado:            NewRadicado(time.Now().UTC()),
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		DocumentType:        strings.TrimSpace(req.DocumentType),
		DocumentNumber:      strings.TrimSpace(req.DocumentNumber),
		WorkArea:            req.WorkArea,
		JobTitle:            strings.TrimSpace(req.JobTitle),
		PermitType:          permitType,
		StartDate:           startDate,
		EndDate:             endDate,
		StartTime:           startTime,
		EndTime:             endTime,
		CompensationDate:    compensationDate,
		RequiresReplacement: req.RequiresReplacement,
		ReplacementName:     replacementName,
		Reason:              strings.TrimSpace(req.Reason),
		Status:              StatusPending,
		UserID:              ownerID,
	}, nil
}

// validateTimes enforces the date/time ordering invariant: a same-day request
// needs both times with end strictly after start.
func validateTimes(startDate, endDate time.Time, start, end *string) (*string, *string, error) {
	var (
		startMin = -1
		endMin   = -1
		err      error
	)

	if start != nil && strings.TrimSpace(*start) != "" {
		if startMin, err = ParseTimeOfDay(*start); err != nil {
			return nil, nil, err
		}
	}
	if end != nil && strings.TrimSpace(*end) != "" {
		if endMin, err = ParseTimeOfDay(*end); err != nil {
			return nil, nil, err
		}
	}

	if startDate.Equal(endDate) {
		if startMin < 0 || endMin < 0 {
			return nil, nil, licenseerrors.ErrSameDayNeedsTimes
		}
		if endMin <= startMin {
			return nil, nil, licenseerrors.ErrInvalidTimeRange
		}
	}

	var startOut, endOut *string
	if startMin >= 0 {
		v := strings.TrimSpace(*start)
		startOut = &v
	}
	if endMin >= 0 {
		v := strings.TrimSpace(*end)
		endOut = &v
	}
	return startOut, endOut, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, licenseerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LicenseRequest) LicenseResponse {
	resp := LicenseResponse{
		ID:                  l.ID.String(),
		Radicado:            l.Radicado,
		FirstName:           l.FirstName,
		LastName:            l.LastName,
		DocumentType:        l.DocumentType,
		DocumentNumber:      l.DocumentNumber,
		WorkArea:            l.WorkArea,
		JobTitle:            l.JobTitle,
		PermitType:          string(l.PermitType),
		PermitTypeLabel:     l.PermitType.Label(),
		StartDate:           l.StartDate.Format("2006-01-02"),
		EndDate:             l.EndDate.Format("2006-01-02"),
		StartTime:           l.StartTime,
		EndTime:             l.EndTime,
		RequiresReplacement: l.RequiresReplacement,
		ReplacementName:     l.ReplacementName,
		Reason:              l.Reason,
		HRComment:           l.HRComment,
		Status:              string(l.Status),
		StatusLabel:         l.Status.Label(),
		CreatedAt:           l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           l.UpdatedAt.Format(time.RFC3339),
	}
	if l.CompensationDate != nil {
		v := l.CompensationDate.Format("2006-01-02")
		resp.CompensationDate = &v
	}
	if l.UserID != nil {
		v := l.UserID.String()
		resp.UserID = &v
	}
	if l.HRUpdatedAt != nil {
		v := l.HRUpdatedAt.Format(time.RFC3339)
		resp.HRUpdatedAt = &v
	}
	return resp
}

func mapToListResponse(rows []LicenseRequest) []LicenseResponse {
	resp := make([]LicenseResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
