package employee

import (
	"io"
	"mime/multipart"
)

type CreateEmployeeRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	DocumentType   string `json:"document_type" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	WorkArea       string `json:"work_area"`
	JobTitle       string `json:"job_title"`
	HireDate       string `json:"hire_date"`
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	WorkArea  string `json:"work_area"`
	JobTitle  string `json:"job_title"`
	HireDate  string `json:"hire_date"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	WorkArea       string `json:"work_area,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type DocumentResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	PublicURL  string `json:"public_url"`
	CreatedAt  string `json:"created_at"`
}

// DocumentUpload decouples the service from multipart plumbing so tests can
// feed in-memory files.
type DocumentUpload struct {
	Name         string
	Size         int64
	DeclaredType string
	Open         func() (io.ReadCloser, error)
}

func UploadFromMultipart(fh *multipart.FileHeader) DocumentUpload {
	return DocumentUpload{
		Name:         fh.Filename,
		Size:         fh.Size,
		DeclaredType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
