package license

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sgthedux/sgth-sub001/internal/evidence"
	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
	"github.com/sgthedux/sgth-sub001/internal/shared/response"
)

type Handler struct {
	service   Service
	evidences evidence.Service
	rdb       *redis.Client
}

func NewHandler(service Service, evidences evidence.Service) *Handler {
	return &Handler{service: service, evidences: evidences}
}

func NewHandlerWithRedis(service Service, evidences evidence.Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, evidences: evidences, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

type intakeResponse struct {
	Radicado   string                      `json:"radicado"`
	Request    LicenseResponse             `json:"request"`
	Evidences  []evidence.EvidenceResponse `json:"evidences"`
	FileErrors []evidence.FileError        `json:"file_errors"`
}

type statusLookupResponse struct {
	Request   LicenseResponse             `json:"request"`
	Evidences []evidence.EvidenceResponse `json:"evidences"`
}

// Create handles the public multipart intake: request fields plus an optional
// "evidences" file list. Evidence failures are reported per file and never
// fail the already persisted request.
func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateLicenseRequest
	if err := c.ShouldBind(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	// Owner is set only when the optional auth middleware identified a user.
	ownerUserID := c.GetString("user_id")

	created, err := h.service.Create(c.Request.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	stored := []evidence.EvidenceResponse{}
	fileErrors := []evidence.FileError{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		headers := form.File["evidences"]
		if len(headers) > 0 {
			files := make([]evidence.IncomingFile, len(headers))
			for i, fh := range headers {
				files[i] = evidence.FromMultipart(fh)
			}
			stored, fileErrors, err = h.evidences.Attach(c.Request.Context(), created.ID, files)
			if err != nil {
				writeServiceError(c, err)
				return
			}
		}
	}

	result := intakeResponse{
		Radicado:   created.Radicado,
		Request:    created,
		Evidences:  stored,
		FileErrors: fileErrors,
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(result); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, result, nil)
}

// GetStatus is the public lookup by tracking code.
func (h *Handler) GetStatus(c *gin.Context) {
	radicado := strings.TrimSpace(c.Query("radicado"))
	if radicado == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "radicado query parameter is required", nil)
		return
	}

	req, err := h.service.GetByRadicado(c.Request.Context(), radicado)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	evidences, err := h.evidences.ListByRequest(c.Request.Context(), req.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, statusLookupResponse{
		Request:   req,
		Evidences: evidences,
	}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.SetStatus(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	var req DeleteLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Delete(c.Request.Context(), req.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}
