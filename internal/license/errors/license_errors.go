package licenseerrors

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
	ErrInvalidOwnerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid owner user id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrSameDayNeedsTimes = apperror.New(
		apperror.CodeInvalidInput,
		"start_date equals end_date: start_time and end_time are required",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time on same-day requests",
		http.StatusBadRequest,
	)
	ErrInvalidPermitType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown permit type code",
		http.StatusBadRequest,
	)
	ErrReplacementNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"replacement_name is required when requires_replacement is true",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of pending, in_review, approved, rejected, cancelled",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"license request not found",
		http.StatusNotFound,
	)
	ErrRadicadoConflict = apperror.New(
		apperror.CodeConflict,
		"tracking code already exists, retry the submission",
		http.StatusConflict,
	)

	// ErrRequiredFieldEmpty is the base error wrapped by RequiredField so
	// callers can match any missing-field failure.
	ErrRequiredFieldEmpty = apperror.New(
		apperror.CodeInvalidInput,
		"required field is empty",
		http.StatusBadRequest,
	)
)

// RequiredField names the offending field in the message while staying
// matchable through ErrRequiredFieldEmpty.
func RequiredField(name string) *apperror.AppError {
	return &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    name + " must not be empty",
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrRequiredFieldEmpty,
	}
}
