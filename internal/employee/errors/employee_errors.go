package employeeerrors

import (
	"net/http"

	"github.com/sgthedux/sgth-sub001/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrDuplicateDocument = apperror.New(
		apperror.CodeConflict,
		"an employee with this document number already exists",
		http.StatusConflict,
	)
	ErrDocumentTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"document exceeds the maximum allowed size",
		http.StatusBadRequest,
	)
	ErrDocumentTypeNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"document type not allowed (pdf, jpeg, png, doc, docx)",
		http.StatusBadRequest,
	)
	ErrDocumentUnreadable = apperror.New(
		apperror.CodeInvalidInput,
		"document could not be read",
		http.StatusBadRequest,
	)
)
