// Package catalog is the orchestrator's view of the events service:
// read an event, mutate its descriptive fields, delete it. Capacity is
// deliberately absent here; only the ledger touches remaining_tickets.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/models"
)

// ErrNotFound is returned when the event does not exist.
var ErrNotFound = errors.New("event not found")

// UpdateFields carries the mutable descriptive fields of an event.
// Nil members are left untouched.
type UpdateFields struct {
	Name        *string
	Category    *models.EventCategory
	Location    *string
	Address     *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	TicketPrice *int
}

// Catalog reads and writes event records.
type Catalog interface {
	Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, eventID uuid.UUID, fields UpdateFields) (*models.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
}

// GormCatalog implements Catalog over the events table.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := c.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (c *GormCatalog) Update(ctx context.Context, eventID uuid.UUID, fields UpdateFields) (*models.Event, error) {
	updates := map[string]interface{}{}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Category != nil {
		updates["category"] = *fields.Category
	}
	if fields.Location != nil {
		updates["location"] = *fields.Location
	}
	if fields.Address != nil {
		updates["address"] = *fields.Address
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.StartTime != nil {
		updates["start_time"] = *fields.StartTime
	}
	if fields.EndTime != nil {
		updates["end_time"] = *fields.EndTime
	}
	if fields.TicketPrice != nil {
		updates["ticket_price"] = *fields.TicketPrice
	}

	if len(updates) > 0 {
		result := c.db.WithContext(ctx).Model(&models.Event{}).
			Where("id = ?", eventID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("update event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return c.Get(ctx, eventID)
}

func (c *GormCatalog) Delete(ctx context.Context, eventID uuid.UUID) error {
	result := c.db.WithContext(ctx).Where("id = ?", eventID).Delete(&models.Event{})
	if result.Error != nil {
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
