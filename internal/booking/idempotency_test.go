package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	ctx := context.Background()

	var missing bookOutcome
	found, err := store.Lookup(ctx, "book", "key-1", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	stored := bookOutcome{TicketID: uuid.New()}
	require.NoError(t, store.Remember(ctx, "book", "key-1", stored))

	var got bookOutcome
	found, err = store.Lookup(ctx, "book", "key-1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored.TicketID, got.TicketID)
}

func TestIdempotencyStoreOpsAreNamespaced(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "book", "shared", bookOutcome{TicketID: uuid.New()}))

	var got bookOutcome
	found, err := store.Lookup(ctx, "cancel", "shared", &got)
	require.NoError(t, err)
	assert.False(t, found, "same key under a different operation must not collide")
}

func TestIdempotencyStoreOverwrites(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	ctx := context.Background()

	first := bookOutcome{TicketID: uuid.New()}
	second := bookOutcome{TicketID: uuid.New()}
	require.NoError(t, store.Remember(ctx, "book", "key-1", first))
	require.NoError(t, store.Remember(ctx, "book", "key-1", second))

	var got bookOutcome
	found, err := store.Lookup(ctx, "book", "key-1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.TicketID, got.TicketID)
}
