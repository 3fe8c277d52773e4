package reporterrors

import (
	"net/http"

	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
)

var (
	ErrNoData = apperror.New(
		apperror.CodeNotFound,
		"no hay solicitudes registradas para generar el reporte",
		http.StatusNotFound,
	)
	ErrTemplateUnavailable = apperror.New(
		apperror.CodeInternalError,
		"la plantilla del formulario no está disponible",
		http.StatusInternalServerError,
	)
)
