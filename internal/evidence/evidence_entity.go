package evidence

import (
	"time"

	"github.com/google/uuid"
)

// Evidence rows are immutable once stored: they are created during or after
// intake and removed only when the owning request is deleted.
type Evidence struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicenseRequestID uuid.UUID `gorm:"type:uuid;not null;index"`

	FileName   string `gorm:"type:varchar(255);not null"`
	MimeType   string `gorm:"type:varchar(100);not null"`
	SizeBytes  int64  `gorm:"not null"`
	StorageKey string `gorm:"type:varchar(500);uniqueIndex;not null"`
	PublicURL  string `gorm:"type:varchar(1000);not null"`

	CreatedAt time.Time
}

func (Evidence) TableName() string {
	return "license_evidences"
}
