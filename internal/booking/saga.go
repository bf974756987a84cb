package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// step is one ordered call of a workflow. A step with a compensate
// function can be undone after the fact; a step marked indeterminate
// must not be retried blindly when its outcome is unknown.
type step struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
	// indeterminate marks the step's effect as non-compensable: a
	// timeout means "possibly succeeded", not "failed".
	indeterminate bool
}

// RetryPolicy controls in-line retries for transient step failures.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Backoff      float64
}

// Delay returns the pause before the given zero-based retry attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(p.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= p.Backoff
	}
	return time.Duration(delay)
}

// execute runs steps in order. On failure it compensates every
// completed step in reverse order and returns the failing step's error
// (wrapped, sentinel preserved). A timeout on an indeterminate step
// skips compensation entirely: the step may have succeeded, so undoing
// earlier steps could revoke a sale the caller paid for.
func (c *Coordinator) execute(ctx context.Context, steps []step) error {
	var done []step
	for _, s := range steps {
		err := c.runStep(ctx, s)
		if err == nil {
			done = append(done, s)
			continue
		}

		if s.indeterminate && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s possibly succeeded: %w", s.name, ErrIndeterminate)
		}

		for i := len(done) - 1; i >= 0; i-- {
			undo := done[i]
			if undo.compensate == nil {
				continue
			}
			if cerr := undo.compensate(ctx); cerr != nil {
				// The compensation itself failed; hand it to the
				// background worker rather than leaving the record
				// inconsistent.
				c.enqueueRetry(undo.name+"/compensate", undo.compensate)
			}
		}
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

func (c *Coordinator) runStep(ctx context.Context, s step) error {
	stepCtx := ctx
	if c.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, c.stepTimeout)
		defer cancel()
	}
	return s.run(stepCtx)
}
