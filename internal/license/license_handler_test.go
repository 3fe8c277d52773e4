package license_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sgthedux/sgth-sub001/internal/evidence"
	"github.com/sgthedux/sgth-sub001/internal/license"
	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
	"github.com/sgthedux/sgth-sub001/internal/middleware"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLicenseService struct {
	createFn        func(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error)
	getAllFn        func(ctx context.Context) ([]license.LicenseResponse, error)
	getByRadicadoFn func(ctx context.Context, radicado string) (license.LicenseResponse, error)
	setStatusFn     func(ctx context.Context, req license.SetStatusRequest) (license.SetStatusResult, error)
	deleteFn        func(ctx context.Context, id string) (license.DeleteResult, error)
}

func (f *fakeLicenseService) Create(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error) {
	return f.createFn(ctx, ownerUserID, req)
}
func (f *fakeLicenseService) GetAll(ctx context.Context) ([]license.LicenseResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeLicenseService) GetByRadicado(ctx context.Context, radicado string) (license.LicenseResponse, error) {
	return f.getByRadicadoFn(ctx, radicado)
}
func (f *fakeLicenseService) SetStatus(ctx context.Context, req license.SetStatusRequest) (license.SetStatusResult, error) {
	return f.setStatusFn(ctx, req)
}
func (f *fakeLicenseService) Delete(ctx context.Context, id string) (license.DeleteResult, error) {
	return f.deleteFn(ctx, id)
}

type fakeEvidenceService struct {
	attachFn func(ctx context.Context, requestID string, files []evidence.IncomingFile) ([]evidence.EvidenceResponse, []evidence.FileError, error)
	listFn   func(ctx context.Context, requestID string) ([]evidence.EvidenceResponse, error)
}

func (f *fakeEvidenceService) Attach(ctx context.Context, requestID string, files []evidence.IncomingFile) ([]evidence.EvidenceResponse, []evidence.FileError, error) {
	if f.attachFn != nil {
		return f.attachFn(ctx, requestID, files)
	}
	return nil, nil, nil
}
func (f *fakeEvidenceService) ListByRequest(ctx context.Context, requestID string) ([]evidence.EvidenceResponse, error) {
	if f.listFn != nil {
		return f.listFn(ctx, requestID)
	}
	return nil, nil
}

func buildIntakeForm(t *testing.T, fields map[string]string, fileNames []string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(t, w.WriteField(k, v))
	}
	for _, name := range fileNames {
		fw, err := w.CreateFormFile("evidences", name)
		assert.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 contenido"))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func intakeFields() map[string]string {
	return map[string]string{
		"first_name":      "Laura",
		"last_name":       "Martínez",
		"document_type":   "CC",
		"document_number": "1032456789",
		"job_title":       "Docente",
		"permit_type":     "medica",
		"start_date":      "2026-09-01",
		"end_date":        "2026-09-02",
		"reason":          "Cita médica",
	}
}

func TestLicenseHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success with evidence files", func(t *testing.T) {
		created := license.LicenseResponse{
			ID:       uuid.New().String(),
			Radicado: "LIC-2026-123456789",
			Status:   "pending",
		}

		svc := &fakeLicenseService{
			createFn: func(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error) {
				assert.Empty(t, ownerUserID)
				assert.Equal(t, "medica", req.PermitType)
				return created, nil
			},
		}
		evidences := &fakeEvidenceService{
			attachFn: func(ctx context.Context, requestID string, files []evidence.IncomingFile) ([]evidence.EvidenceResponse, []evidence.FileError, error) {
				assert.Equal(t, created.ID, requestID)
				assert.Len(t, files, 1)
				return []evidence.EvidenceResponse{{FileName: "certificado.pdf"}}, nil, nil
			},
		}

		h := license.NewHandler(svc, evidences)

		body, contentType := buildIntakeForm(t, intakeFields(), []string{"certificado.pdf"})
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/licenses", body)
		c.Request.Header.Set("Content-Type", contentType)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Ok)

		var data struct {
			Radicado  string                      `json:"radicado"`
			Evidences []evidence.EvidenceResponse `json:"evidences"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, created.Radicado, data.Radicado)
		assert.Len(t, data.Evidences, 1)
	})

	t.Run("missing required field returns 400", func(t *testing.T) {
		svc := &fakeLicenseService{
			createFn: func(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error) {
				t.Fatal("service must not be called")
				return license.LicenseResponse{}, nil
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		fields := intakeFields()
		delete(fields, "reason")
		body, contentType := buildIntakeForm(t, fields, nil)

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/licenses", body)
		c.Request.Header.Set("Content-Type", contentType)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})

	t.Run("validation error from the service", func(t *testing.T) {
		svc := &fakeLicenseService{
			createFn: func(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error) {
				return license.LicenseResponse{}, licenseerrors.ErrInvalidDateRange
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		body, contentType := buildIntakeForm(t, intakeFields(), nil)
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/licenses", body)
		c.Request.Header.Set("Content-Type", contentType)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLicenseHandler_Create_IdempotencyKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, redisMock := redismock.NewClientMock()

	created := license.LicenseResponse{
		ID:       uuid.New().String(),
		Radicado: "LIC-2026-123456789",
		Status:   "pending",
	}
	calls := 0
	svc := &fakeLicenseService{
		createFn: func(ctx context.Context, ownerUserID string, req license.CreateLicenseRequest) (license.LicenseResponse, error) {
			calls++
			return created, nil
		},
	}
	h := license.NewHandlerWithRedis(svc, &fakeEvidenceService{}, rdb)

	router := gin.New()
	router.POST("/licenses", middleware.Idempotency(rdb), h.Create)

	// httptest requests always originate from 192.0.2.1.
	cacheKey := "idemp:/licenses:192.0.2.1:retry-abc"
	lockKey := cacheKey + ":lock"

	// First submit: cache miss, lock taken, response cached, lock released.
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
	redisMock.Regexp().ExpectSet(regexp.QuoteMeta(cacheKey), `.*`, 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel(lockKey).SetVal(1)

	body, contentType := buildIntakeForm(t, intakeFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/licenses", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Idempotency-Key", "retry-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)

	// A retry with the same key replays the cached response before the
	// handler runs, so no second radicado is ever assigned.
	cached, err := json.Marshal(gin.H{"radicado": created.Radicado})
	assert.NoError(t, err)
	redisMock.ExpectGet(cacheKey).SetVal(string(cached))

	retryBody, retryType := buildIntakeForm(t, intakeFields(), nil)
	retry := httptest.NewRequest(http.MethodPost, "/licenses", retryBody)
	retry.Header.Set("Content-Type", retryType)
	retry.Header.Set("Idempotency-Key", "retry-abc")
	retryRec := httptest.NewRecorder()
	router.ServeHTTP(retryRec, retry)

	assert.Equal(t, http.StatusOK, retryRec.Code)
	assert.Equal(t, 1, calls)
	env := decodeEnvelope(t, retryRec.Body.Bytes())
	assert.True(t, env.Ok)
	assert.Contains(t, string(env.Data), created.Radicado)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestLicenseHandler_GetStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("found with evidences", func(t *testing.T) {
		stored := license.LicenseResponse{
			ID:       uuid.New().String(),
			Radicado: "LIC-2026-123456789",
			Status:   "in_review",
		}
		svc := &fakeLicenseService{
			getByRadicadoFn: func(ctx context.Context, radicado string) (license.LicenseResponse, error) {
				assert.Equal(t, stored.Radicado, radicado)
				return stored, nil
			},
		}
		evidences := &fakeEvidenceService{
			listFn: func(ctx context.Context, requestID string) ([]evidence.EvidenceResponse, error) {
				return []evidence.EvidenceResponse{{FileName: "soporte.png"}}, nil
			},
		}
		h := license.NewHandler(svc, evidences)

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/licenses/status?radicado=LIC-2026-123456789", nil)

		h.GetStatus(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("missing radicado parameter", func(t *testing.T) {
		h := license.NewHandler(&fakeLicenseService{}, &fakeEvidenceService{})

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/licenses/status", nil)

		h.GetStatus(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown radicado returns 404", func(t *testing.T) {
		svc := &fakeLicenseService{
			getByRadicadoFn: func(ctx context.Context, radicado string) (license.LicenseResponse, error) {
				return license.LicenseResponse{}, licenseerrors.ErrRequestNotFound
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/licenses/status?radicado=LIC-2026-000000000", nil)

		h.GetStatus(c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestLicenseHandler_SetStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeLicenseService{
			setStatusFn: func(ctx context.Context, req license.SetStatusRequest) (license.SetStatusResult, error) {
				assert.Equal(t, id, req.ID)
				assert.Equal(t, "approved", req.Status)
				return license.SetStatusResult{
					Request: license.LicenseResponse{ID: id, Status: "approved"},
					Message: "La solicitud LIC-2026-123456789 pasó al estado: Aprobada",
				}, nil
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		payload := `{"id":"` + id + `","status":"approved","comment":"ok"}`
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/licenses/status", strings.NewReader(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		h.SetStatus(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("non-uuid id fails binding", func(t *testing.T) {
		h := license.NewHandler(&fakeLicenseService{}, &fakeEvidenceService{})

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/licenses/status", strings.NewReader(`{"id":"nope","status":"approved"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.SetStatus(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLicenseHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns storage keys for cleanup", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeLicenseService{
			deleteFn: func(ctx context.Context, got string) (license.DeleteResult, error) {
				assert.Equal(t, id, got)
				return license.DeleteResult{
					Deleted:     true,
					StorageKeys: []string{"licenses/abc/1_certificado.pdf"},
				}, nil
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/licenses", strings.NewReader(`{"id":"`+id+`"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Delete(c)

		assert.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec.Body.Bytes())
		var data license.DeleteResult
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.True(t, data.Deleted)
		assert.Equal(t, []string{"licenses/abc/1_certificado.pdf"}, data.StorageKeys)
	})
}

func TestLicenseHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("paginates in memory", func(t *testing.T) {
		rows := make([]license.LicenseResponse, 15)
		for i := range rows {
			rows[i] = license.LicenseResponse{ID: uuid.New().String()}
		}
		svc := &fakeLicenseService{
			getAllFn: func(ctx context.Context) ([]license.LicenseResponse, error) {
				return rows, nil
			},
		}
		h := license.NewHandler(svc, &fakeEvidenceService{})

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/licenses?page=2&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		var data []license.LicenseResponse
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data, 5)
	})
}
