package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Season selects which weekly template row applies. It is derived from
// the calendar date, never stored on appointments.
type Season string

const (
	SeasonStandard Season = "standard"
	SeasonWinter   Season = "winter"
)

// Period is one open/close interval within a day, "HH:MM" 24h clock,
// same-day, open < close.
type Period struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Periods is stored as a JSONB column.
type Periods []Period

func (p Periods) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Periods) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, p)
}

// DaySchedule is one weekly template row, keyed by (day_of_week, season).
// Invariant: IsClosed implies Periods is empty.
type DaySchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_day_season,priority:1"` // 0 = Sunday
	Season    Season    `gorm:"type:varchar(10);not null;uniqueIndex:idx_day_season,priority:2"`
	IsClosed  bool      `gorm:"default:false"`
	Periods   Periods   `gorm:"type:jsonb;default:'[]'"`

	gorm.Model
}

func (d *DaySchedule) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
