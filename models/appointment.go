package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment lifecycle statuses. Cancelled, completed and rescheduled
// are terminal; completed is set by the operational workflow, never by
// a negotiation transition.
const (
	StatusPending     = "pending"
	StatusProposed    = "proposed"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"
	StatusCompleted   = "completed"
	StatusRescheduled = "rescheduled"
)

// Appointment categories.
const (
	TypeService         = "service"
	TypePickup          = "pickup"
	TypeDelivery        = "delivery"
	TypeInspection      = "inspection"
	TypeConsultation    = "consultation"
	TypeRepair          = "repair"
	TypePropertyViewing = "property_viewing"
	TypeOther           = "other"
)

type Appointment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	AssignedStaffID *uuid.UUID `gorm:"type:uuid;index"`
	TicketID        *uuid.UUID `gorm:"type:uuid"` // originating ticket, informational only

	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Type        string `gorm:"type:varchar(20);not null;default:'other'"`

	Date      *time.Time `gorm:"type:date;index"`
	StartTime *string    `gorm:"type:varchar(5)"` // "HH:MM"
	EndTime   *string    `gorm:"type:varchar(5)"`

	Status       string `gorm:"type:varchar(20);not null;default:'pending';index"`
	ProposedText string `gorm:"type:text"`
	CustomerNote string `gorm:"type:text"`

	ReminderSent24h bool `gorm:"default:false"`
	ReminderSent1h  bool `gorm:"default:false"`

	// Staff confirms the appointment was entered into the operational
	// calendar; distinct from the customer confirming the date.
	RegisteredBy *uuid.UUID `gorm:"type:uuid"`
	RegisteredAt *time.Time

	StaffQuestion   string `gorm:"type:text"`
	StaffQuestionAt *time.Time
	StaffQuestionBy *uuid.UUID `gorm:"type:uuid"`

	CancelReason string `gorm:"type:text"`
	CancelledAt  *time.Time

	// History link to the record this one replaces. Never traversed for
	// cascading updates.
	RescheduledFrom *uuid.UUID `gorm:"type:uuid"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// IsTerminal reports whether no further negotiation transition applies.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCancelled, StatusCompleted, StatusRescheduled:
		return true
	}
	return false
}
