package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bug struct {
	ID            string    `gorm:"type:varchar(36);primarykey" json:"id"`
	ProductID     string    `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Summary       string    `gorm:"type:varchar(200);not null" json:"summary"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Severity      Severity  `gorm:"type:varchar(20);not null;default:'Medium';index" json:"severity"`
	StatusID      string    `gorm:"type:varchar(36);not null;index" json:"status_id"`
	ReporterName  *string   `gorm:"type:varchar(100)" json:"reporter_name"`
	ReporterEmail *string   `gorm:"type:varchar(255)" json:"reporter_email"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Product     Product      `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE" json:"product,omitempty"`
	Status      Status       `gorm:"foreignKey:StatusID;constraint:OnUpdate:CASCADE" json:"status,omitempty"`
	Screenshots []Screenshot `gorm:"foreignKey:BugID;constraint:OnDelete:CASCADE" json:"screenshots,omitempty"`
}

func (b *Bug) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Severity == "" {
		b.Severity = SeverityMedium
	}
	return nil
}
