package feedback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/catalog"
	"eventbook/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	entries []models.Feedback
}

func (s *memoryStore) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.UserID == userID && e.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Create(ctx context.Context, entry models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memoryStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Feedback
	for _, e := range s.entries {
		if e.EventID == eventID {
			list = append(list, e)
		}
	}
	return list, nil
}

func newTestCollector(t *testing.T, endTime time.Time) (*Collector, uuid.UUID, *memoryStore) {
	t.Helper()
	events := catalog.NewMemoryCatalog()
	eventID := uuid.New()
	events.Put(models.Event{
		ID:       eventID,
		Name:     "City Marathon",
		Category: models.CategorySports,
		EndTime:  endTime,
	})
	store := &memoryStore{}
	return NewCollector(events, store), eventID, store
}

func TestSubmitBeforeEventEnds(t *testing.T) {
	c, eventID, _ := newTestCollector(t, time.Now().Add(time.Hour))
	err := c.Submit(context.Background(), uuid.New(), eventID, 4, "great course")
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestSubmitAfterEventEnds(t *testing.T) {
	c, eventID, store := newTestCollector(t, time.Now().Add(-time.Hour))
	userID := uuid.New()

	err := c.Submit(context.Background(), userID, eventID, 5, "well organised")
	require.NoError(t, err)

	list, err := store.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Rating)
	assert.Equal(t, userID, list[0].UserID)
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	c, eventID, _ := newTestCollector(t, time.Now().Add(-time.Hour))
	userID := uuid.New()

	require.NoError(t, c.Submit(context.Background(), userID, eventID, 3, ""))
	err := c.Submit(context.Background(), userID, eventID, 4, "changed my mind")
	assert.ErrorIs(t, err, ErrNotEligible)

	// A different user is still eligible.
	assert.NoError(t, c.Submit(context.Background(), uuid.New(), eventID, 4, ""))
}

func TestSubmitRatingBounds(t *testing.T) {
	c, eventID, _ := newTestCollector(t, time.Now().Add(-time.Hour))
	assert.Error(t, c.Submit(context.Background(), uuid.New(), eventID, 0, ""))
	assert.Error(t, c.Submit(context.Background(), uuid.New(), eventID, 6, ""))
}

func TestSubmitUnknownEvent(t *testing.T) {
	c, _, _ := newTestCollector(t, time.Now())
	err := c.Submit(context.Background(), uuid.New(), uuid.New(), 3, "")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
