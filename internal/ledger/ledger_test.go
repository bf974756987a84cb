package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerAdjust(t *testing.T) {
	l := NewMemoryLedger()
	eventID := uuid.New()
	l.Seed(eventID, 10)

	remaining, err := l.Adjust(context.Background(), eventID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	remaining, err = l.Adjust(context.Background(), eventID, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, remaining)
}

func TestMemoryLedgerRejectsNegative(t *testing.T) {
	l := NewMemoryLedger()
	eventID := uuid.New()
	l.Seed(eventID, 3)

	_, err := l.Adjust(context.Background(), eventID, -4)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	// The failed adjustment must not have touched the counter.
	remaining, err := l.Get(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestMemoryLedgerUnknownEvent(t *testing.T) {
	l := NewMemoryLedger()
	_, err := l.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Adjust(context.Background(), uuid.New(), -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Many goroutines draining one event must never oversell: the number
// of successful single-ticket debits equals the initial capacity.
func TestMemoryLedgerConcurrentDrain(t *testing.T) {
	l := NewMemoryLedger()
	eventID := uuid.New()
	const capacity = 50
	l.Seed(eventID, capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Adjust(context.Background(), eventID, -1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	remaining, err := l.Get(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
