package report_test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sgthedux/sgth-sub001/internal/evidence"
	"github.com/sgthedux/sgth-sub001/internal/license"
	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
	"github.com/sgthedux/sgth-sub001/internal/report"
	reporterrors "github.com/sgthedux/sgth-sub001/internal/report/errors"
)

type fakeLicenseRepository struct {
	findAllFn  func(ctx context.Context) ([]license.LicenseRequest, error)
	findByIDFn func(ctx context.Context, id string) (*license.LicenseRequest, error)
}

func (f *fakeLicenseRepository) WithTx(tx *sql.Tx) license.Repository { return f }
func (f *fakeLicenseRepository) Create(ctx context.Context, l *license.LicenseRequest) error {
	return nil
}
func (f *fakeLicenseRepository) FindByID(ctx context.Context, id string) (*license.LicenseRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeLicenseRepository) FindByRadicado(ctx context.Context, radicado string) (*license.LicenseRequest, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeLicenseRepository) FindAll(ctx context.Context) ([]license.LicenseRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeLicenseRepository) Update(ctx context.Context, l *license.LicenseRequest) error {
	return nil
}
func (f *fakeLicenseRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeEvidenceRepository struct {
	findByRequestIDFn func(ctx context.Context, requestID string) ([]evidence.Evidence, error)
}

func (f *fakeEvidenceRepository) WithTx(tx *sql.Tx) evidence.Repository { return f }
func (f *fakeEvidenceRepository) Create(ctx context.Context, e *evidence.Evidence) error {
	return nil
}
func (f *fakeEvidenceRepository) FindByRequestID(ctx context.Context, requestID string) ([]evidence.Evidence, error) {
	if f.findByRequestIDFn != nil {
		return f.findByRequestIDFn(ctx, requestID)
	}
	return nil, nil
}
func (f *fakeEvidenceRepository) DeleteByRequestID(ctx context.Context, requestID string) error {
	return nil
}
func (f *fakeEvidenceRepository) RequestExists(ctx context.Context, requestID string) (bool, error) {
	return true, nil
}

func newTestService(t *testing.T, licenses *fakeLicenseRepository, evidences *fakeEvidenceRepository) report.Service {
	t.Helper()
	filler, err := report.NewFormFiller("")
	assert.NoError(t, err)
	return report.NewService(licenses, evidences, filler, nil)
}

func strptr(s string) *string { return &s }

func sampleRequests(now time.Time) []license.LicenseRequest {
	approvedAt := now
	return []license.LicenseRequest{
		{
			ID:         uuid.New(),
			Radicado:   "LIC-2026-000000001",
			FirstName:  "Laura",
			LastName:   "Martínez",
			PermitType: license.PermitMedical,
			Status:     license.StatusPending,
			StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			CreatedAt:  now,
		},
		{
			ID:          uuid.New(),
			Radicado:    "LIC-2026-000000002",
			FirstName:   "Andrés",
			LastName:    "Gómez",
			PermitType:  license.PermitStudy,
			Status:      license.StatusApproved,
			StartDate:   time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
			HRUpdatedAt: &approvedAt,
			CreatedAt:   now,
		},
		{
			ID:         uuid.New(),
			Radicado:   "LIC-2026-000000003",
			FirstName:  "Paola",
			LastName:   "Ruiz",
			PermitType: license.PermitPersonal,
			Status:     license.StatusRejected,
			StartDate:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			StartTime:  strptr("08:00"),
			EndTime:    strptr("10:30"),
			CreatedAt:  now,
		},
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	sum := report.Summarize(sampleRequests(now), now)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Pending)
	assert.Equal(t, 1, sum.Approved)
	assert.Equal(t, 1, sum.Rejected)
	assert.Equal(t, 0, sum.InReview)
	assert.Equal(t, 0, sum.Cancelled)
	assert.Equal(t, 1, sum.ApprovedThisMonth)
}

func TestSummarize_ApprovedOutsideCurrentMonth(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)

	requests := []license.LicenseRequest{
		{Status: license.StatusApproved, HRUpdatedAt: &lastMonth},
	}
	sum := report.Summarize(requests, now)

	assert.Equal(t, 1, sum.Approved)
	assert.Equal(t, 0, sum.ApprovedThisMonth)
}

func TestDuration(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		req  license.LicenseRequest
		want string
	}{
		{
			name: "same day with times",
			req: license.LicenseRequest{
				StartDate: day, EndDate: day,
				StartTime: strptr("08:00"), EndTime: strptr("10:30"),
			},
			want: "2h 30m",
		},
		{
			name: "same day exact hours",
			req: license.LicenseRequest{
				StartDate: day, EndDate: day,
				StartTime: strptr("08:00"), EndTime: strptr("11:00"),
			},
			want: "3h",
		},
		{
			name: "two days without times",
			req: license.LicenseRequest{
				StartDate: day, EndDate: day.AddDate(0, 0, 1),
			},
			want: "2 días",
		},
		{
			name: "single day without times",
			req: license.LicenseRequest{
				StartDate: day, EndDate: day,
			},
			want: "1 día",
		},
		{
			name: "week long",
			req: license.LicenseRequest{
				StartDate: day, EndDate: day.AddDate(0, 0, 6),
			},
			want: "7 días",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, report.Duration(tc.req))
		})
	}
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses an empty collection", func(t *testing.T) {
		svc := newTestService(t, &fakeLicenseRepository{}, &fakeEvidenceRepository{})

		_, err := svc.Export(ctx)
		assert.ErrorIs(t, err, reporterrors.ErrNoData)
	})

	t.Run("builds the two-sheet workbook", func(t *testing.T) {
		now := time.Now()
		requests := sampleRequests(now)

		licenses := &fakeLicenseRepository{
			findAllFn: func(ctx context.Context) ([]license.LicenseRequest, error) {
				return requests, nil
			},
		}
		evidences := &fakeEvidenceRepository{
			findByRequestIDFn: func(ctx context.Context, requestID string) ([]evidence.Evidence, error) {
				if requestID == requests[0].ID.String() {
					return []evidence.Evidence{
						{FileName: "certificado.pdf"},
						{FileName: "soporte.png"},
					}, nil
				}
				return nil, nil
			},
		}
		svc := newTestService(t, licenses, evidences)

		file, err := svc.Export(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "reporte_licencias_"+now.Format("2006-01-02")+".xlsx", file.Name)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
		assert.NoError(t, err)
		defer wb.Close()

		assert.Contains(t, wb.GetSheetList(), "Resumen")
		assert.Contains(t, wb.GetSheetList(), "Solicitudes")

		rows, err := wb.GetRows("Solicitudes")
		assert.NoError(t, err)
		assert.Len(t, rows, 4, "header plus one row per request")
		assert.Equal(t, "Radicado", rows[0][0])
		assert.Equal(t, "LIC-2026-000000001", rows[1][0])

		// Evidence count and concatenated names for the first request.
		assert.Equal(t, "2", rows[1][19])
		assert.Equal(t, "certificado.pdf, soporte.png", rows[1][20])

		// Same-day request renders an hour/minute duration.
		assert.Equal(t, "2h 30m", rows[3][18])

		summaryRows, err := wb.GetRows("Resumen")
		assert.NoError(t, err)
		assert.Equal(t, []string{"Total de solicitudes", "3"}, summaryRows[0][:2])
	})
}

func TestReportService_FillForm(t *testing.T) {
	ctx := context.Background()

	t.Run("places the checkmark at the permit coordinate", func(t *testing.T) {
		stored := &license.LicenseRequest{
			ID:         uuid.New(),
			Radicado:   "LIC-2026-000000001",
			FirstName:  "Laura",
			LastName:   "Martínez",
			PermitType: license.PermitMedical,
			Status:     license.StatusPending,
			StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		}
		licenses := &fakeLicenseRepository{
			findByIDFn: func(ctx context.Context, id string) (*license.LicenseRequest, error) {
				return stored, nil
			},
		}
		svc := newTestService(t, licenses, &fakeEvidenceRepository{})

		file, err := svc.FillForm(ctx, stored.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "formato_licencia_LIC-2026-000000001.xlsx", file.Name)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
		assert.NoError(t, err)
		defer wb.Close()

		mark, err := wb.GetCellValue("Formato", stored.PermitType.FormCell())
		assert.NoError(t, err)
		assert.Equal(t, "X", mark)

		name, err := wb.GetCellValue("Formato", "C5")
		assert.NoError(t, err)
		assert.Equal(t, "Laura Martínez", name)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := newTestService(t, &fakeLicenseRepository{}, &fakeEvidenceRepository{})

		_, err := svc.FillForm(ctx, uuid.New().String())
		assert.ErrorIs(t, err, licenseerrors.ErrRequestNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := newTestService(t, &fakeLicenseRepository{}, &fakeEvidenceRepository{})

		_, err := svc.FillForm(ctx, "nope")
		assert.ErrorIs(t, err, licenseerrors.ErrInvalidRequestID)
	})
}
