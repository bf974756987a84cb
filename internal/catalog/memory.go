package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"eventbook/internal/models"
)

// MemoryCatalog is an in-process Catalog.
type MemoryCatalog struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event

	// FailDelete makes the next Delete return this error.
	FailDelete error
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{events: make(map[uuid.UUID]*models.Event)}
}

// Put stores an event, overwriting any existing entry.
func (c *MemoryCatalog) Put(event models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[event.ID] = &event
}

func (c *MemoryCatalog) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	event, ok := c.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *event
	return &clone, nil
}

func (c *MemoryCatalog) Update(ctx context.Context, eventID uuid.UUID, fields UpdateFields) (*models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	event, ok := c.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	if fields.Name != nil {
		event.Name = *fields.Name
	}
	if fields.Category != nil {
		event.Category = *fields.Category
	}
	if fields.Location != nil {
		event.Location = *fields.Location
	}
	if fields.Address != nil {
		event.Address = *fields.Address
	}
	if fields.Description != nil {
		event.Description = *fields.Description
	}
	if fields.StartTime != nil {
		event.StartTime = *fields.StartTime
	}
	if fields.EndTime != nil {
		event.EndTime = *fields.EndTime
	}
	if fields.TicketPrice != nil {
		event.TicketPrice = *fields.TicketPrice
	}
	clone := *event
	return &clone, nil
}

func (c *MemoryCatalog) Delete(ctx context.Context, eventID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailDelete != nil {
		err := c.FailDelete
		c.FailDelete = nil
		return err
	}
	if _, ok := c.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(c.events, eventID)
	return nil
}
