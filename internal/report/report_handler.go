package report

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
	"github.com/sgthedux/sgth-sub001/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	writeWorkbook(c, file)
}

func (h *Handler) FillForm(c *gin.Context) {
	file, err := h.service.FillForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	writeWorkbook(c, file)
}

func writeWorkbook(c *gin.Context, file *File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, xlsxContentType, file.Content)
}
