package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday overrides the weekly template for one date. A concrete-date
// holiday wins over a recurring month-day match for the same date.
// SpecialHours is consulted only when IsClosed is false.
type Holiday struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name         string     `gorm:"not null"`
	Date         *time.Time `gorm:"type:date;index"`
	IsRecurring  bool       `gorm:"default:false"`
	Month        int        // 1-12, set when IsRecurring
	Day          int        // 1-31, set when IsRecurring
	IsClosed     bool       `gorm:"default:true"`
	SpecialHours Periods    `gorm:"type:jsonb;default:'[]'"`

	gorm.Model
}

func (h *Holiday) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}
