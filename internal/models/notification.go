package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"notificationId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"eventId"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return
}
