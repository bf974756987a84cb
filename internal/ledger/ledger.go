// Package ledger is the authoritative counter of unsold tickets per
// event. Adjust is the single serialisation point for concurrent
// bookings: the check and the write happen under one row lock, so two
// callers racing for the last tickets can never both win.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventbook/internal/models"
)

// ErrNotFound is returned when the event does not exist.
var ErrNotFound = errors.New("event not found")

// ErrInsufficientCapacity is returned when an adjustment would drive
// the remaining count negative.
var ErrInsufficientCapacity = errors.New("insufficient remaining tickets")

// ErrConflict is returned when a concurrent adjustment for the same
// event could not be serialised. Callers may retry.
var ErrConflict = errors.New("concurrent capacity adjustment")

// Ledger tracks remaining ticket capacity per event.
type Ledger interface {
	// Get returns the current remaining ticket count.
	Get(ctx context.Context, eventID uuid.UUID) (int, error)
	// Adjust atomically applies delta (negative for bookings, positive
	// for restocks) and returns the new remaining count. The read and
	// the write are a single serialised operation.
	Adjust(ctx context.Context, eventID uuid.UUID, delta int) (int, error)
}

// GormLedger implements Ledger over the events table.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Get(ctx context.Context, eventID uuid.UUID) (int, error) {
	var event models.Event
	err := l.db.WithContext(ctx).
		Select("remaining_tickets").
		Where("id = ?", eventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("read remaining tickets: %w", err)
	}
	return event.RemainingTickets, nil
}

// Adjust locks the event row for the duration of the transaction
// (SELECT ... FOR UPDATE), so concurrent adjustments for the same
// event queue up instead of racing on a stale read.
func (l *GormLedger) Adjust(ctx context.Context, eventID uuid.UUID, delta int) (int, error) {
	var remaining int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock event row: %w", err)
		}

		remaining = event.RemainingTickets + delta
		if remaining < 0 {
			return ErrInsufficientCapacity
		}

		if err := tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			Update("remaining_tickets", remaining).Error; err != nil {
			return fmt.Errorf("write remaining tickets: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}
