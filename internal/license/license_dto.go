package license

type CreateLicenseRequest struct {
	FirstName      string  `form:"first_name" json:"first_name" binding:"required"`
	LastName       string  `form:"last_name" json:"last_name" binding:"required"`
	DocumentType   string  `form:"document_type" json:"document_type" binding:"required"`
	DocumentNumber string  `form:"document_number" json:"document_number" binding:"required"`
	WorkArea       *string `form:"work_area" json:"work_area"`
	JobTitle       string  `form:"job_title" json:"job_title" binding:"required"`

	PermitType string `form:"permit_type" json:"permit_type" binding:"required"`

	StartDate        string  `form:"start_date" json:"start_date" binding:"required"`
	EndDate          string  `form:"end_date" json:"end_date" binding:"required"`
	StartTime        *string `form:"start_time" json:"start_time"`
	EndTime          *string `form:"end_time" json:"end_time"`
	CompensationDate *string `form:"compensation_date" json:"compensation_date"`

	RequiresReplacement bool    `form:"requires_replacement" json:"requires_replacement"`
	ReplacementName     *string `form:"replacement_name" json:"replacement_name"`

	Reason string `form:"reason" json:"reason" binding:"required"`
}

type SetStatusRequest struct {
	ID      string  `json:"id" binding:"required,uuid"`
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment"`
}

type DeleteLicenseRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

type LicenseResponse struct {
	ID       string `json:"id"`
	Radicado string `json:"radicado"`

	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	DocumentType   string  `json:"document_type"`
	DocumentNumber string  `json:"document_number"`
	WorkArea       *string `json:"work_area,omitempty"`
	JobTitle       string  `json:"job_title"`

	PermitType      string `json:"permit_type"`
	PermitTypeLabel string `json:"permit_type_label"`

	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	StartTime        *string `json:"start_time,omitempty"`
	EndTime          *string `json:"end_time,omitempty"`
	CompensationDate *string `json:"compensation_date,omitempty"`

	RequiresReplacement bool    `json:"requires_replacement"`
	ReplacementName     *string `json:"replacement_name,omitempty"`

	Reason    string  `json:"reason"`
	HRComment *string `json:"hr_comment,omitempty"`

	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`

	UserID *string `json:"user_id,omitempty"`

	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	HRUpdatedAt *string `json:"hr_updated_at,omitempty"`
}

type SetStatusResult struct {
	Request LicenseResponse `json:"request"`
	Message string          `json:"message"`
}

// DeleteResult hands the evidence storage keys back to the caller: object
// store cleanup is an external best-effort follow-up, not transactional with
// the database delete.
type DeleteResult struct {
	Deleted     bool     `json:"deleted"`
	StorageKeys []string `json:"storage_keys"`
}
