package evidenceerrors

import (
	"net/http"

	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"license request not found",
		http.StatusNotFound,
	)
)
