// Package feedback records post-event ratings and comments, one entry
// per (user, event) pair. It needs no cross-service coordination: the
// only gate is that the event has concluded.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/models"
)

// ErrNotEligible is returned when feedback arrives before the event's
// end time or when the user already left feedback for the event.
var ErrNotEligible = errors.New("not eligible to submit feedback")

// EventSource resolves events so eligibility can be checked.
type EventSource interface {
	Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
}

// Store persists feedback entries.
type Store interface {
	Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	Create(ctx context.Context, entry models.Feedback) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error)
}

// Collector validates and records feedback.
type Collector struct {
	events EventSource
	store  Store
	now    func() time.Time
}

func NewCollector(events EventSource, store Store) *Collector {
	return &Collector{events: events, store: store, now: time.Now}
}

// Submit records a rating in [1,5] with optional comments. It fails
// with ErrNotEligible before the event concludes or on a duplicate
// submission for the same user and event.
func (c *Collector) Submit(ctx context.Context, userID, eventID uuid.UUID, rating int, comments string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	event, err := c.events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.Ended(c.now()) {
		return ErrNotEligible
	}

	exists, err := c.store.Exists(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("check existing feedback: %w", err)
	}
	if exists {
		return ErrNotEligible
	}

	entry := models.Feedback{
		UserID:    userID,
		EventID:   eventID,
		Rating:    rating,
		Comments:  comments,
		CreatedAt: c.now().UTC(),
	}
	if err := c.store.Create(ctx, entry); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	return nil
}

// ListByEvent returns all feedback for an event for organizer review.
func (c *Collector) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	return c.store.ListByEvent(ctx, eventID)
}

// GormStore implements Store over the feedbacks table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Create(ctx context.Context, entry models.Feedback) error {
	return s.db.WithContext(ctx).Create(&entry).Error
}

func (s *GormStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	var list []models.Feedback
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}
