package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/models"
)

// ErrNotFound is returned when the notification does not exist or does
// not belong to the requesting recipient.
var ErrNotFound = errors.New("notification not found")

// StoreSender delivers by persisting a notification row for the
// recipient, which the notifications view reads back.
type StoreSender struct {
	db *gorm.DB
}

func NewStoreSender(db *gorm.DB) *StoreSender {
	return &StoreSender{db: db}
}

func (s *StoreSender) Deliver(ctx context.Context, userID, eventID uuid.UUID, message string) error {
	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser returns a recipient's notifications, newest first.
func (s *StoreSender) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var list []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// Delete removes a notification, but only for its own recipient.
func (s *StoreSender) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
