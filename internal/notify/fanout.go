// Package notify delivers one logical message to many recipients.
// Delivery is best-effort and tracked per user: a failure for one
// recipient never blocks or undoes delivery to the others.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sender performs a single delivery attempt.
type Sender interface {
	Deliver(ctx context.Context, userID, eventID uuid.UUID, message string) error
}

// Report holds the outcome of one broadcast, keyed by recipient. Err
// is set when the broadcast could not be attempted at all, such as a
// failed recipient enumeration; Results is then empty, which is how a
// caller tells total failure apart from an empty recipient set.
type Report struct {
	Results map[uuid.UUID]error
	Err     error
}

// Delivered returns the number of successful deliveries.
func (r *Report) Delivered() int {
	n := 0
	for _, err := range r.Results {
		if err == nil {
			n++
		}
	}
	return n
}

// Failed returns the recipients whose delivery attempt failed.
func (r *Report) Failed() []uuid.UUID {
	var failed []uuid.UUID
	for userID, err := range r.Results {
		if err != nil {
			failed = append(failed, userID)
		}
	}
	return failed
}

// Broadcaster fans a message out to a set of recipients concurrently.
type Broadcaster struct {
	sender  Sender
	timeout time.Duration
}

// NewBroadcaster wraps a Sender. timeout bounds each whole broadcast;
// zero means no bound beyond the caller's context.
func NewBroadcaster(sender Sender, timeout time.Duration) *Broadcaster {
	return &Broadcaster{sender: sender, timeout: timeout}
}

// Broadcast attempts delivery to every recipient and waits for all
// attempts to finish. No ordering is guaranteed across recipients, and
// failed deliveries are reported rather than retried here.
func (b *Broadcaster) Broadcast(ctx context.Context, userIDs []uuid.UUID, eventID uuid.UUID, message string) *Report {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	type delivery struct {
		userID uuid.UUID
		err    error
	}
	resultCh := make(chan delivery, len(userIDs))
	for _, userID := range userIDs {
		go func(userID uuid.UUID) {
			resultCh <- delivery{userID: userID, err: b.sender.Deliver(ctx, userID, eventID, message)}
		}(userID)
	}

	report := &Report{Results: make(map[uuid.UUID]error, len(userIDs))}
	for range userIDs {
		d := <-resultCh
		report.Results[d.userID] = d.err
	}
	return report
}
