// Package booking coordinates multi-step workflows across the capacity
// ledger, the ticket store and the notification fan-out. There is no
// shared transaction between those services; consistency comes from
// ordered calls and explicit compensations.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventbook/internal/catalog"
	"eventbook/internal/directory"
	"eventbook/internal/ledger"
	"eventbook/internal/models"
	"eventbook/internal/notify"
	"eventbook/internal/tickets"
)

const (
	defaultStepTimeout = 5 * time.Second
	retryQueueSize     = 256
)

// Config wires a Coordinator to its collaborators.
type Config struct {
	Ledger      ledger.Ledger
	Tickets     tickets.Store
	Catalog     catalog.Catalog
	Directory   directory.Directory
	Broadcaster *notify.Broadcaster

	// Idempotency is optional; without it indeterminate outcomes
	// cannot be retried safely.
	Idempotency *IdempotencyStore

	// StepTimeout bounds each remote call; zero means the default.
	StepTimeout time.Duration

	// RestockRetry governs in-line retries of the restock step before
	// it is handed to the background worker.
	RestockRetry RetryPolicy
}

// Coordinator drives each workflow to a consistent end state.
type Coordinator struct {
	ledger      ledger.Ledger
	tickets     tickets.Store
	catalog     catalog.Catalog
	directory   directory.Directory
	broadcaster *notify.Broadcaster
	idempotency *IdempotencyStore
	stepTimeout time.Duration
	retryPolicy RetryPolicy

	jobs chan retryJob
	wg   sync.WaitGroup
	stop chan struct{}
}

type retryJob struct {
	name string
	fn   func(ctx context.Context) error
}

func NewCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{
		ledger:      cfg.Ledger,
		tickets:     cfg.Tickets,
		catalog:     cfg.Catalog,
		directory:   cfg.Directory,
		broadcaster: cfg.Broadcaster,
		idempotency: cfg.Idempotency,
		stepTimeout: cfg.StepTimeout,
		retryPolicy: cfg.RestockRetry,
		jobs:        make(chan retryJob, retryQueueSize),
		stop:        make(chan struct{}),
	}
	if c.stepTimeout == 0 {
		c.stepTimeout = defaultStepTimeout
	}
	if c.retryPolicy.MaxAttempts == 0 {
		c.retryPolicy = RetryPolicy{MaxAttempts: 5, InitialDelay: 100 * time.Millisecond, Backoff: 2.0}
	}
	c.wg.Add(1)
	go c.retryWorker()
	return c
}

// Close stops the background retry worker after draining queued jobs.
func (c *Coordinator) Close() {
	close(c.stop)
	c.wg.Wait()
}

// bookOutcome is what an idempotent Book replay returns.
type bookOutcome struct {
	TicketID uuid.UUID `json:"ticketId"`
}

// cancelOutcome tracks a cancellation across its two effects: the
// status flip and the restock. Restocked stays false until the credit
// has been issued, so a replay after an interrupted flip knows it
// still owes the ledger.
type cancelOutcome struct {
	TicketID  uuid.UUID `json:"ticketId"`
	Restocked bool      `json:"restocked"`
}

// Book reserves count tickets for userID on eventID. Steps, in order:
// capacity pre-check, ticket creation, authoritative capacity debit.
// If the debit fails the created ticket is compensated away; a ticket
// never outlives a failed decrement. The pre-check is advisory only:
// the debit re-checks under the ledger's lock, so concurrent bookings
// for the last tickets cannot both win.
func (c *Coordinator) Book(ctx context.Context, userID, eventID uuid.UUID, count int, idemKey string) (*models.Ticket, error) {
	if count < 1 {
		return nil, fmt.Errorf("requested count %d: %w", count, ledger.ErrInsufficientCapacity)
	}

	replayed, ticket, err := c.replayBook(ctx, idemKey)
	if err != nil {
		return nil, err
	}
	if replayed {
		return ticket, nil
	}

	steps := []step{
		{
			name: "check-capacity",
			run: func(ctx context.Context) error {
				remaining, err := c.ledger.Get(ctx, eventID)
				if err != nil {
					return err
				}
				if count > remaining {
					return ledger.ErrInsufficientCapacity
				}
				return nil
			},
		},
		{
			name: "create-ticket",
			run: func(ctx context.Context) error {
				created, err := c.tickets.Create(ctx, eventID, userID, count)
				if err != nil {
					return err
				}
				ticket = created
				// Recorded before the debit so a keyed retry after an
				// indeterminate debit replays this ticket instead of
				// creating a second one.
				c.remember(ctx, "book", idemKey, bookOutcome{TicketID: ticket.ID})
				return nil
			},
			compensate: func(ctx context.Context) error {
				_, err := c.tickets.Cancel(ctx, ticket.ID)
				if errors.Is(err, tickets.ErrAlreadyCancelled) {
					return nil
				}
				return err
			},
		},
		{
			name: "debit-capacity",
			run: func(ctx context.Context) error {
				_, err := c.ledger.Adjust(ctx, eventID, -count)
				return err
			},
			indeterminate: true,
		},
	}

	if err := c.execute(ctx, steps); err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientCapacity),
			errors.Is(err, ledger.ErrNotFound),
			errors.Is(err, ledger.ErrConflict),
			errors.Is(err, ErrIndeterminate):
			return nil, err
		default:
			if ticket != nil {
				return nil, fmt.Errorf("%w: %v", ErrBookingAborted, err)
			}
			return nil, err
		}
	}
	return ticket, nil
}

// Cancel transitions a ticket to CANCELLED and restocks its count.
// Once the status flip succeeds the cancellation is final: a failed
// restock is retried in the background, never rolled back. An
// unrestocked cancellation leaks inventory but can never double-sell.
func (c *Coordinator) Cancel(ctx context.Context, userID, ticketID uuid.UUID, idemKey string) (*models.Ticket, error) {
	replayed, ticket, err := c.replayCancel(ctx, idemKey)
	if err != nil {
		return nil, err
	}
	if replayed {
		return ticket, nil
	}

	existing, err := c.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}
	if existing.Status == models.TicketCancelled {
		return nil, tickets.ErrAlreadyCancelled
	}

	// Recorded before the indeterminate flip so a keyed retry after a
	// flip timeout finds the record instead of re-executing into
	// AlreadyCancelled. Restocked stays false until the credit runs.
	c.remember(ctx, "cancel", idemKey, cancelOutcome{TicketID: ticketID})

	var cancelled *models.Ticket
	flip := step{
		name: "cancel-ticket",
		run: func(ctx context.Context) error {
			t, err := c.tickets.Cancel(ctx, ticketID)
			if err != nil {
				return err
			}
			cancelled = t
			return nil
		},
		indeterminate: true,
	}
	if err := c.execute(ctx, []step{flip}); err != nil {
		if !errors.Is(err, ErrIndeterminate) {
			// The flip failed in-band, so this attempt cancelled
			// nothing; a stale record here would make a keyed retry
			// restock a cancellation that was never ours.
			c.forget(ctx, "cancel", idemKey)
		}
		return nil, err
	}

	c.restock(ctx, cancelled.EventID, cancelled.TicketCount)
	c.remember(ctx, "cancel", idemKey, cancelOutcome{TicketID: ticketID, Restocked: true})
	return cancelled, nil
}

// restock credits the ledger, retrying transient failures in-line and
// deferring to the background worker if the ledger stays unavailable.
func (c *Coordinator) restock(ctx context.Context, eventID uuid.UUID, count int) {
	credit := func(ctx context.Context) error {
		_, err := c.ledger.Adjust(ctx, eventID, count)
		if errors.Is(err, ledger.ErrNotFound) {
			// Event deleted between cancel and restock; nothing to
			// credit any more.
			return nil
		}
		return err
	}

	var err error
	for attempt := 0; attempt < c.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(c.retryPolicy.Delay(attempt - 1))
		}
		if err = credit(ctx); err == nil {
			return
		}
		if !errors.Is(err, ledger.ErrConflict) {
			break
		}
	}
	c.enqueueRetry("restock", credit)
}

// RemoveEvent deletes an event and broadcasts message to every user.
// Deletion is the authoritative step: once it succeeds, delivery
// failures are reported but never undo it. An empty message skips the
// broadcast entirely.
func (c *Coordinator) RemoveEvent(ctx context.Context, organizerID, eventID uuid.UUID, message string) (*notify.Report, error) {
	event, err := c.catalog.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrForbidden
	}

	remove := step{
		name: "delete-event",
		run: func(ctx context.Context) error {
			return c.catalog.Delete(ctx, eventID)
		},
		indeterminate: true,
	}
	if err := c.execute(ctx, []step{remove}); err != nil {
		return nil, err
	}

	if message == "" {
		return nil, nil
	}
	return c.broadcast(ctx, eventID, message)
}

// UpdateEvent mutates descriptive fields and, when a message is given,
// triggers the same best-effort fan-out as RemoveEvent. The fan-out is
// decoupled from the mutation: its failures never affect the update.
func (c *Coordinator) UpdateEvent(ctx context.Context, organizerID, eventID uuid.UUID, fields catalog.UpdateFields, message string) (*models.Event, *notify.Report, error) {
	event, err := c.catalog.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, nil, ErrForbidden
	}

	updated, err := c.catalog.Update(ctx, eventID, fields)
	if err != nil {
		return nil, nil, err
	}

	if message == "" {
		return updated, nil, nil
	}
	report, err := c.broadcast(ctx, eventID, message)
	return updated, report, err
}

func (c *Coordinator) broadcast(ctx context.Context, eventID uuid.UUID, message string) (*notify.Report, error) {
	userIDs, err := c.directory.ListUserIDs(ctx)
	if err != nil {
		// The mutation already succeeded; surface the report gap as a
		// total delivery failure rather than a workflow error.
		report := &notify.Report{Results: map[uuid.UUID]error{}, Err: fmt.Errorf("enumerate recipients: %w", err)}
		return report, fmt.Errorf("%w: enumerate recipients: %v", ErrPartialDelivery, err)
	}
	report := c.broadcaster.Broadcast(ctx, userIDs, eventID, message)
	if len(report.Failed()) > 0 {
		return report, ErrPartialDelivery
	}
	return report, nil
}

func (c *Coordinator) replayBook(ctx context.Context, idemKey string) (bool, *models.Ticket, error) {
	if c.idempotency == nil || idemKey == "" {
		return false, nil, nil
	}
	var outcome bookOutcome
	found, err := c.idempotency.Lookup(ctx, "book", idemKey, &outcome)
	if err != nil {
		// Re-executing here could duplicate a completed booking; the
		// caller must retry with the same key once the store is back.
		return false, nil, fmt.Errorf("%w: idempotency lookup: %v", ErrIndeterminate, err)
	}
	if !found {
		return false, nil, nil
	}
	ticket, err := c.tickets.GetByID(ctx, outcome.TicketID)
	if err != nil {
		return false, nil, nil
	}
	if ticket.Status != models.TicketBooked {
		// The earlier attempt was compensated away; this invocation
		// re-executes and its outcome supersedes the record.
		return false, nil, nil
	}
	return true, ticket, nil
}

func (c *Coordinator) replayCancel(ctx context.Context, idemKey string) (bool, *models.Ticket, error) {
	if c.idempotency == nil || idemKey == "" {
		return false, nil, nil
	}
	var outcome cancelOutcome
	found, err := c.idempotency.Lookup(ctx, "cancel", idemKey, &outcome)
	if err != nil {
		return false, nil, fmt.Errorf("%w: idempotency lookup: %v", ErrIndeterminate, err)
	}
	if !found {
		return false, nil, nil
	}
	ticket, err := c.tickets.GetByID(ctx, outcome.TicketID)
	if err != nil {
		return false, nil, nil
	}
	if ticket.Status != models.TicketCancelled {
		// The recorded flip never landed; re-execute.
		return false, nil, nil
	}
	if !outcome.Restocked {
		// The earlier attempt's flip landed but was interrupted before
		// crediting the ledger; settle that debt exactly once.
		c.restock(ctx, ticket.EventID, ticket.TicketCount)
		c.remember(ctx, "cancel", idemKey, cancelOutcome{TicketID: ticket.ID, Restocked: true})
	}
	return true, ticket, nil
}

func (c *Coordinator) remember(ctx context.Context, op, idemKey string, outcome interface{}) {
	if c.idempotency == nil || idemKey == "" {
		return
	}
	if err := c.idempotency.Remember(ctx, op, idemKey, outcome); err != nil {
		log.Printf("booking: remember %s outcome: %v", op, err)
	}
}

func (c *Coordinator) forget(ctx context.Context, op, idemKey string) {
	if c.idempotency == nil || idemKey == "" {
		return
	}
	if err := c.idempotency.Forget(ctx, op, idemKey); err != nil {
		log.Printf("booking: forget %s record: %v", op, err)
	}
}

func (c *Coordinator) enqueueRetry(name string, fn func(ctx context.Context) error) {
	select {
	case c.jobs <- retryJob{name: name, fn: fn}:
	default:
		log.Printf("booking: retry queue full, dropping %s", name)
	}
}

func (c *Coordinator) retryWorker() {
	defer c.wg.Done()
	for {
		select {
		case job := <-c.jobs:
			c.runRetryJob(job)
		case <-c.stop:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case job := <-c.jobs:
					c.runRetryJob(job)
				default:
					return
				}
			}
		}
	}
}

func (c *Coordinator) runRetryJob(job retryJob) {
	for attempt := 0; attempt < c.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(c.retryPolicy.Delay(attempt - 1))
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.stepTimeout)
		err := job.fn(ctx)
		cancel()
		if err == nil {
			return
		}
		if attempt == c.retryPolicy.MaxAttempts-1 {
			log.Printf("booking: %s failed after %d attempts: %v", job.name, c.retryPolicy.MaxAttempts, err)
		}
	}
}
