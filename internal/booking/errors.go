package booking

import "errors"

// ErrBookingAborted is returned when a booking step failed after the
// ticket was created and the ticket was compensated away. Nothing was
// sold; the caller may retry with a fresh request.
var ErrBookingAborted = errors.New("booking aborted")

// ErrIndeterminate is returned when a non-compensable step timed out:
// it may or may not have taken effect. Retries must reuse the same
// idempotency key so a duplicate effect cannot occur.
var ErrIndeterminate = errors.New("outcome indeterminate")

// ErrPartialDelivery is returned alongside a delivery report when some
// broadcast recipients were unreachable. The triggering mutation has
// already succeeded and is never rolled back for this.
var ErrPartialDelivery = errors.New("partial notification delivery")

// ErrForbidden is returned when the caller does not own the resource
// the workflow would mutate.
var ErrForbidden = errors.New("caller does not own this resource")
