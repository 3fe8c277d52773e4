package evidence

import (
	"io"
	"mime/multipart"
)

// IncomingFile decouples the service from multipart plumbing so tests can
// feed synthetic files.
type IncomingFile struct {
	Name         string
	Size         int64
	DeclaredType string
	Open         func() (io.ReadCloser, error)
}

func FromMultipart(fh *multipart.FileHeader) IncomingFile {
	return IncomingFile{
		Name:         fh.Filename,
		Size:         fh.Size,
		DeclaredType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

type EvidenceResponse struct {
	ID               string `json:"id"`
	LicenseRequestID string `json:"license_request_id"`
	FileName         string `json:"file_name"`
	MimeType         string `json:"mime_type"`
	SizeBytes        int64  `json:"size_bytes"`
	StorageKey       string `json:"storage_key"`
	URL              string `json:"url"`
	CreatedAt        string `json:"created_at"`
}

// FileError reports a single rejected or failed file without aborting its
// siblings.
type FileError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}
