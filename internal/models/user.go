package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the directory entry held by the external users service.
// The booking core only reads it to enumerate broadcast recipients;
// registration and credentials live with the identity collaborator.
type User struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"userId"`
	Email       string    `gorm:"unique;not null" json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `gorm:"not null;default:'user'" json:"role"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
