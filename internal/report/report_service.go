package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/sgthedux/sgth-sub001/internal/evidence"
	"github.com/sgthedux/sgth-sub001/internal/license"
	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
	reporterrors "github.com/sgthedux/sgth-sub001/internal/report/errors"
)

const (
	summarySheet = "Resumen"
	dataSheet    = "Solicitudes"

	// Export binaries are small and regenerating them is cheap, the cache
	// only smooths over bursts of HR downloads.
	exportCacheKey = "reports:licenses:xlsx"
	exportCacheTTL = time.Minute
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	// Export builds the two-sheet workbook over every stored request.
	Export(ctx context.Context) (*File, error)

	// FillForm renders the single-request permit form with the checkmark
	// placed at the coordinate assigned to the permit type.
	FillForm(ctx context.Context, requestID string) (*File, error)
}

type service struct {
	licenses  license.Repository
	evidences evidence.Repository
	filler    *FormFiller
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	licenses license.Repository,
	evidences evidence.Repository,
	filler *FormFiller,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report_service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		licenses:  licenses,
		evidences: evidences,
		filler:    filler,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Export(ctx context.Context) (*File, error) {
	name := exportFileName(time.Now())

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, exportCacheKey).Bytes()
		if err == nil && len(cached) > 0 {
			return &File{Name: name, Content: cached}, nil
		}
	}

	v, err, _ := s.sf.Do(exportCacheKey, func() (interface{}, error) {
		content, err := s.buildExport(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if err := s.rdb.Set(ctx, exportCacheKey, content, exportCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache report export", zap.Error(err))
			}
		}

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return &File{Name: name, Content: v.([]byte)}, nil
}

func (s *service) buildExport(ctx context.Context) ([]byte, error) {
	requests, err := s.licenses.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, reporterrors.ErrNoData
	}

	summary := Summarize(requests, time.Now())

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, summary); err != nil {
		return nil, err
	}
	if err := s.writeDataSheet(ctx, f, requests); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Summarize computes the status counters shown on the first sheet. Approved
// requests count toward the current month when their latest HR decision
// falls inside it.
func Summarize(requests []license.LicenseRequest, now time.Time) Summary {
	var sum Summary
	sum.Total = len(requests)

	for _, r := range requests {
		switch r.Status {
		case license.StatusPending:
			sum.Pending++
		case license.StatusInReview:
			sum.InReview++
		case license.StatusApproved:
			sum.Approved++
		case license.StatusRejected:
			sum.Rejected++
		case license.StatusCanceled:
			sum.Cancelled++
		}

		if r.Status == license.StatusApproved {
			decidedAt := r.UpdatedAt
			if r.HRUpdatedAt != nil {
				decidedAt = *r.HRUpdatedAt
			}
			if decidedAt.Year() == now.Year() && decidedAt.Month() == now.Month() {
				sum.ApprovedThisMonth++
			}
		}
	}

	return sum
}

func writeSummarySheet(f *excelize.File, sum Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 12); err != nil {
		return err
	}

	rows := []struct {
		label string
		value int
	}{
		{"Total de solicitudes", sum.Total},
		{"Pendientes", sum.Pending},
		{"En revisión", sum.InReview},
		{"Aprobadas", sum.Approved},
		{"Rechazadas", sum.Rejected},
		{"Canceladas", sum.Cancelled},
		{"Aprobadas este mes", sum.ApprovedThisMonth},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{row.label, row.value}); err != nil {
			return err
		}
	}
	return nil
}

var dataHeaders = []interface{}{
	"Radicado", "Nombres", "Apellidos", "Tipo de documento", "Número de documento",
	"Área", "Cargo", "Tipo de permiso", "Fecha inicio", "Fecha fin",
	"Hora inicio", "Hora fin", "Fecha de compensación", "Requiere reemplazo",
	"Nombre del reemplazo", "Motivo", "Estado", "Comentario RRHH",
	"Duración", "Evidencias", "Archivos", "Fecha de solicitud",
}

func (s *service) writeDataSheet(ctx context.Context, f *excelize.File, requests []license.LicenseRequest) error {
	if _, err := f.NewSheet(dataSheet); err != nil {
		return err
	}

	widths := []float64{18, 16, 16, 10, 16, 18, 18, 26, 12, 12, 10, 10, 14, 10, 20, 40, 14, 30, 12, 10, 40, 20}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(dataSheet, col, col, w); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(dataSheet, "A1", &dataHeaders); err != nil {
		return err
	}

	for i, r := range requests {
		evidences, err := s.evidences.FindByRequestID(ctx, r.ID.String())
		if err != nil {
			return err
		}

		fileNames := make([]string, len(evidences))
		for j, e := range evidences {
			fileNames[j] = e.FileName
		}

		row := []interface{}{
			r.Radicado,
			r.FirstName,
			r.LastName,
			r.DocumentType,
			r.DocumentNumber,
			deref(r.WorkArea),
			r.JobTitle,
			r.PermitType.Label(),
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"),
			deref(r.StartTime),
			deref(r.EndTime),
			formatOptionalDate(r.CompensationDate),
			formatBool(r.RequiresReplacement),
			deref(r.ReplacementName),
			r.Reason,
			r.Status.Label(),
			deref(r.HRComment),
			Duration(r),
			len(evidences),
			strings.Join(fileNames, ", "),
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

// Duration renders the human-readable length of a request: hours and minutes
// when it starts and ends the same day with both times present, whole days
// otherwise.
func Duration(r license.LicenseRequest) string {
	sameDay := r.StartDate.Equal(r.EndDate)
	if sameDay && r.StartTime != nil && r.EndTime != nil {
		start, errS := license.ParseTimeOfDay(*r.StartTime)
		end, errE := license.ParseTimeOfDay(*r.EndTime)
		if errS == nil && errE == nil && end > start {
			mins := end - start
			if mins%60 == 0 {
				return fmt.Sprintf("%dh", mins/60)
			}
			return fmt.Sprintf("%dh %dm", mins/60, mins%60)
		}
	}

	days := int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
	if days <= 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", days)
}

func (s *service) FillForm(ctx context.Context, requestID string) (*File, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, licenseerrors.ErrInvalidRequestID
	}

	r, err := s.licenses.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, licenseerrors.ErrRequestNotFound
		}
		return nil, err
	}

	content, err := s.filler.Fill(r)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:    fmt.Sprintf("formato_licencia_%s.xlsx", r.Radicado),
		Content: content,
	}, nil
}

func exportFileName(now time.Time) string {
	return fmt.Sprintf("reporte_licencias_%s.xlsx", now.Format("2006-01-02"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatBool(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
