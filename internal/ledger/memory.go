package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryLedger is an in-process Ledger keyed by event id. A single
// mutex covers the whole map; adjustments for one event are serialised
// the same way the row lock serialises them in the gorm implementation.
type MemoryLedger struct {
	mu       sync.Mutex
	counters map[uuid.UUID]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{counters: make(map[uuid.UUID]int)}
}

// Seed sets the remaining count for an event, creating it if needed.
func (l *MemoryLedger) Seed(eventID uuid.UUID, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters[eventID] = remaining
}

func (l *MemoryLedger) Get(ctx context.Context, eventID uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining, ok := l.counters[eventID]
	if !ok {
		return 0, ErrNotFound
	}
	return remaining, nil
}

func (l *MemoryLedger) Adjust(ctx context.Context, eventID uuid.UUID, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining, ok := l.counters[eventID]
	if !ok {
		return 0, ErrNotFound
	}
	if remaining+delta < 0 {
		return 0, ErrInsufficientCapacity
	}
	l.counters[eventID] = remaining + delta
	return remaining + delta, nil
}
