package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStatusColor is applied when a status is created without a color.
const DefaultStatusColor = "#3b82f6"

// Status is an ordered workflow stage. The lowest Order is the default for new bugs.
type Status struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#3b82f6'" json:"color"`
	Order     int       `gorm:"column:order;not null;default:0" json:"order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Status) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Color == "" {
		s.Color = DefaultStatusColor
	}
	return nil
}
