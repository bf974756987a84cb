package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketBooked    TicketStatus = "BOOKED"
	TicketCancelled TicketStatus = "CANCELLED"
)

type Ticket struct {
	gorm.Model
	ID            uuid.UUID    `gorm:"type:uuid;primary_key" json:"ticketId"`
	EventID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"eventId"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"userId"`
	TicketCount   int          `gorm:"not null" json:"ticketCount"`
	Status        TicketStatus `gorm:"not null;default:'BOOKED'" json:"status"`
	BookingDate   time.Time    `gorm:"not null" json:"bookingDate"`
	CancelingDate *time.Time   `json:"cancelingDate,omitempty"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
