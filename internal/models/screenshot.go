package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxScreenshotSize is the largest accepted attachment in bytes (5 MiB).
const MaxScreenshotSize = 5 * 1024 * 1024

type Screenshot struct {
	ID               string    `gorm:"type:varchar(36);primarykey" json:"id"`
	BugID            string    `gorm:"type:varchar(36);not null;index" json:"bug_id"`
	Filename         string    `gorm:"type:varchar(255);not null;index" json:"filename"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (s *Screenshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StorageKey is the blob store path of the screenshot: <bug_id>/<filename>.
func (s Screenshot) StorageKey() string {
	return s.BugID + "/" + s.Filename
}
