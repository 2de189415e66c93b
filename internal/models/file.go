package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File represents one uploaded file: everything needed to serve,
// expire and audit it.
type File struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OriginalName string     `json:"originalName" gorm:"not null"`
	StoredName   string     `json:"storedName" gorm:"not null;uniqueIndex"`
	FilePath     string     `json:"filePath" gorm:"not null"`
	FileSize     int64      `json:"fileSize" gorm:"not null"`
	FileType     string     `json:"fileType" gorm:"not null"`
	Extension    string     `json:"extension" gorm:"not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	ExpiresAt    *time.Time `json:"expiresAt" gorm:"index"`
	Views        int64      `json:"views" gorm:"not null;default:0"`
	Downloads    int64      `json:"downloads" gorm:"not null;default:0"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the record id on the application side so it is
// known before the insert and does not depend on a database default.
func (f *File) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the record is past its expiry instant.
// The boundary is inclusive: a record expiring exactly now is expired.
func (f *File) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}
