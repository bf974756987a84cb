package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory string

const (
	CategoryMusic      EventCategory = "MUSIC"
	CategorySports     EventCategory = "SPORTS"
	CategoryTheatre    EventCategory = "THEATRE"
	CategoryConference EventCategory = "CONFERENCE"
	CategoryWorkshop   EventCategory = "WORKSHOP"
)

func (c EventCategory) Valid() bool {
	switch c {
	case CategoryMusic, CategorySports, CategoryTheatre, CategoryConference, CategoryWorkshop:
		return true
	}
	return false
}

type Event struct {
	gorm.Model
	ID               uuid.UUID     `gorm:"type:uuid;primary_key" json:"eventId"`
	Name             string        `gorm:"not null" json:"name"`
	Category         EventCategory `gorm:"not null" json:"category"`
	Location         string        `gorm:"not null" json:"location"`
	Address          string        `gorm:"not null" json:"address"`
	Description      string        `gorm:"not null" json:"description"`
	StartTime        time.Time     `gorm:"not null" json:"startTime"`
	EndTime          time.Time     `gorm:"not null" json:"endTime"`
	TicketPrice      int           `gorm:"not null" json:"ticketPrice"`
	RemainingTickets int           `gorm:"not null;check:remaining_tickets >= 0" json:"remainingTickets"`
	OrganizerID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"organizerId"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// Ended reports whether the event has concluded. Feedback is only
// accepted once this is true.
func (event *Event) Ended(now time.Time) bool {
	return now.After(event.EndTime)
}
