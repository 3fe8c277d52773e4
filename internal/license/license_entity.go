package license

import (
	"time"

	"github.com/google/uuid"
)

type LicenseRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Radicado string    `gorm:"type:varchar(30);uniqueIndex;not null"`

	FirstName      string  `gorm:"type:varchar(120);not null"`
	LastName       string  `gorm:"type:varchar(120);not null"`
	DocumentType   string  `gorm:"type:varchar(10);not null"`
	DocumentNumber string  `gorm:"type:varchar(30);not null"`
	WorkArea       *string `gorm:"type:varchar(120)"`
	JobTitle       string  `gorm:"type:varchar(120);not null"`

	PermitType PermitType `gorm:"type:varchar(30);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	// Optional time-of-day bounds for sub-day permits, stored as HH:MM.
	StartTime        *string    `gorm:"type:varchar(5)"`
	EndTime          *string    `gorm:"type:varchar(5)"`
	CompensationDate *time.Time `gorm:"type:date"`

	RequiresReplacement bool    `gorm:"not null;default:false"`
	ReplacementName     *string `gorm:"type:varchar(200)"`

	Reason    string  `gorm:"type:text;not null"`
	HRComment *string `gorm:"column:hr_comment;type:text"`

	Status Status `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Nullable so anonymous/public submissions keep working.
	UserID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	HRUpdatedAt *time.Time `gorm:"column:hr_updated_at"`
}

func (LicenseRequest) TableName() string {
	return "license_requests"
}
