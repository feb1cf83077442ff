package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is the persisted record of a message to a user. Delivery
// over the push channel is best effort; the row is the source of truth.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	Title       string     `gorm:"not null"`
	Message     string     `gorm:"type:text;not null"`
	Category    string     `gorm:"type:varchar(30)"`
	RelatedID   *uuid.UUID `gorm:"type:uuid"`
	RelatedType string     `gorm:"type:varchar(30)"`
	DeepLink    string
	Read        bool   `gorm:"default:false"`
	PushStatus  string `gorm:"type:varchar(20)"` // sent, failed, skipped
	PushError   string `gorm:"type:text"`

	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
