package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName      string     `gorm:"type:varchar(120);not null"`
	LastName       string     `gorm:"type:varchar(120);not null"`
	DocumentType   string     `gorm:"type:varchar(10);not null"`
	DocumentNumber string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex"`
	Phone          string     `gorm:"type:varchar(30)"`
	WorkArea       string     `gorm:"type:varchar(120)"`
	JobTitle       string     `gorm:"type:varchar(120)"`
	HireDate       *time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeDocument is an uploaded file attached to a profile, typically
// the CV or a supporting certificate.
type EmployeeDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:varchar(30);not null;default:'cv'"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	MimeType   string    `gorm:"type:varchar(100);not null"`
	SizeBytes  int64     `gorm:"not null"`
	StorageKey string    `gorm:"type:varchar(512);not null;uniqueIndex"`
	PublicURL  string    `gorm:"type:varchar(1024);not null"`
	CreatedAt  time.Time
}

func (EmployeeDocument) TableName() string {
	return "employee_documents"
}
