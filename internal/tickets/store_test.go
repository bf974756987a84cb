package tickets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/models"
)

func TestCancelIsOneWay(t *testing.T) {
	s := NewMemoryStore()
	ticket, err := s.Create(context.Background(), uuid.New(), uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.TicketBooked, ticket.Status)
	assert.Nil(t, ticket.CancelingDate)

	cancelled, err := s.Cancel(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelingDate)
	assert.Equal(t, ticket.BookingDate, cancelled.BookingDate)
	assert.Equal(t, 2, cancelled.TicketCount)

	// Second cancel must fail, not silently succeed.
	_, err = s.Cancel(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelUnknownTicket(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjections(t *testing.T) {
	s := NewMemoryStore()
	eventID := uuid.New()
	userID := uuid.New()

	_, err := s.Create(context.Background(), eventID, userID, 1)
	require.NoError(t, err)
	_, err = s.Create(context.Background(), eventID, uuid.New(), 3)
	require.NoError(t, err)
	_, err = s.Create(context.Background(), uuid.New(), userID, 2)
	require.NoError(t, err)

	byEvent, err := s.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	byUser, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	// Projections are restartable: a second read sees the same rows.
	again, err := s.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}
