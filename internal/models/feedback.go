package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is identified by the (user, event) pair: one entry per
// attendee per event, enforced by the composite unique index.
type Feedback struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_event" json:"userId"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_event" json:"eventId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}
