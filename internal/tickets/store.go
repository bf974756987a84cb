// Package tickets holds one record per booking attempt, independent of
// the capacity ledger. A ticket's count is fixed at creation and its
// status moves BOOKED -> CANCELLED exactly once.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/models"
)

// ErrNotFound is returned when the ticket does not exist.
var ErrNotFound = errors.New("ticket not found")

// ErrAlreadyCancelled is returned on a second cancel of the same
// ticket. Cancel is deliberately not idempotent: callers must check the
// status before retrying.
var ErrAlreadyCancelled = errors.New("ticket already cancelled")

// Store persists ticket records.
type Store interface {
	Create(ctx context.Context, eventID, userID uuid.UUID, count int) (*models.Ticket, error)
	GetByID(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error)
	// Cancel transitions a BOOKED ticket to CANCELLED and stamps its
	// canceling date. The status check and the write are one guarded
	// update, so only one of two racing cancels can succeed.
	Cancel(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error)
}

// GormStore implements Store over the tickets table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, eventID, userID uuid.UUID, count int) (*models.Ticket, error) {
	ticket := models.Ticket{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      userID,
		TicketCount: count,
		Status:      models.TicketBooked,
		BookingDate: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return &ticket, nil
}

func (s *GormStore) GetByID(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).Where("id = ?", ticketID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &ticket, nil
}

func (s *GormStore) Cancel(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, models.TicketBooked).
		Updates(map[string]interface{}{
			"status":         models.TicketCancelled,
			"canceling_date": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("cancel ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either absent or already cancelled; look to tell them apart.
		ticket, err := s.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if ticket.Status == models.TicketCancelled {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("cancel ticket %s: no row updated", ticketID)
	}
	return s.GetByID(ctx, ticketID)
}

func (s *GormStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var list []models.Ticket
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_date DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets by user: %w", err)
	}
	return list, nil
}

func (s *GormStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	var list []models.Ticket
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("booking_date ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets by event: %w", err)
	}
	return list, nil
}
