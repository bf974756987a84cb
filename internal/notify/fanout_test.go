package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySender fails delivery for a chosen set of recipients.
type flakySender struct {
	mu       sync.Mutex
	failFor  map[uuid.UUID]error
	attempts []uuid.UUID
}

func (s *flakySender) Deliver(ctx context.Context, userID, eventID uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, userID)
	if err, ok := s.failFor[userID]; ok {
		return err
	}
	return nil
}

func TestBroadcastPartialFailure(t *testing.T) {
	user1, user2, user3 := uuid.New(), uuid.New(), uuid.New()
	sender := &flakySender{failFor: map[uuid.UUID]error{user2: errors.New("mailbox unreachable")}}
	b := NewBroadcaster(sender, time.Second)

	report := b.Broadcast(context.Background(), []uuid.UUID{user1, user2, user3}, uuid.New(), "event cancelled")

	require.Len(t, report.Results, 3)
	assert.NoError(t, report.Results[user1])
	assert.Error(t, report.Results[user2])
	assert.NoError(t, report.Results[user3])
	assert.Equal(t, 2, report.Delivered())
	assert.Equal(t, []uuid.UUID{user2}, report.Failed())
}

func TestBroadcastAllSucceed(t *testing.T) {
	sender := &flakySender{}
	b := NewBroadcaster(sender, time.Second)

	users := []uuid.UUID{uuid.New(), uuid.New()}
	report := b.Broadcast(context.Background(), users, uuid.New(), "venue changed")

	assert.Empty(t, report.Failed())
	assert.Equal(t, 2, report.Delivered())
	// One attempt per recipient, all of them made.
	assert.Len(t, sender.attempts, 2)
}

func TestBroadcastNoRecipients(t *testing.T) {
	b := NewBroadcaster(&flakySender{}, time.Second)
	report := b.Broadcast(context.Background(), nil, uuid.New(), "noop")
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Delivered())
}
