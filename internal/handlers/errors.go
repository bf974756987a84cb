package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventbook/internal/booking"
	"eventbook/internal/catalog"
	"eventbook/internal/feedback"
	"eventbook/internal/helpers"
	"eventbook/internal/ledger"
	"eventbook/internal/notify"
	"eventbook/internal/tickets"
)

// respondWorkflowError maps the orchestration error taxonomy onto HTTP
// statuses. Terminal conditions get plain errors; contention and
// indeterminate outcomes are flagged retryable so the UI knows
// resubmitting (with the same idempotency key) is safe.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientCapacity):
		helpers.RespondWithError(c, http.StatusConflict, "Not enough tickets remaining for this event.")
	case errors.Is(err, tickets.ErrAlreadyCancelled):
		helpers.RespondWithError(c, http.StatusConflict, "Ticket is already cancelled.")
	case errors.Is(err, feedback.ErrNotEligible):
		helpers.RespondWithError(c, http.StatusConflict, "Feedback can be given once, after the event has ended.")
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, tickets.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, notify.ErrNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Resource not found.")
	case errors.Is(err, booking.ErrForbidden):
		helpers.RespondWithError(c, http.StatusForbidden, "You do not own this resource.")
	case errors.Is(err, ledger.ErrConflict):
		helpers.RespondRetryable(c, http.StatusConflict, "Concurrent update in flight. Please retry.")
	case errors.Is(err, booking.ErrIndeterminate):
		helpers.RespondRetryable(c, http.StatusGatewayTimeout, "The outcome could not be confirmed. Retry with the same Idempotency-Key.")
	case errors.Is(err, booking.ErrBookingAborted):
		helpers.RespondWithError(c, http.StatusBadGateway, "Booking could not be completed and was rolled back.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Unexpected error.")
	}
}

// deliveryReport renders a broadcast report keyed by recipient, with
// "ok" for delivered and the failure text otherwise. A broadcast-level
// error is rendered separately so total failure never reads as an
// empty recipient set.
func deliveryReport(report *notify.Report) gin.H {
	results := gin.H{}
	for userID, err := range report.Results {
		if err == nil {
			results[userID.String()] = "ok"
		} else {
			results[userID.String()] = err.Error()
		}
	}
	out := gin.H{
		"delivered": report.Delivered(),
		"failed":    len(report.Failed()),
		"results":   results,
	}
	if report.Err != nil {
		out["error"] = report.Err.Error()
	}
	return out
}
