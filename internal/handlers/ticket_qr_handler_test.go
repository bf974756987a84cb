package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/models"
)

func TestQRCodeDataRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "qr-secret")
	ticket := &models.Ticket{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		UserID:      uuid.New(),
		TicketCount: 2,
		Status:      models.TicketBooked,
		BookingDate: time.Now().UTC(),
	}

	data := generateQRCodeData(ticket)

	ticketID, err := extractTicketIDFromQRData(data)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, ticketID)
	assert.True(t, validateQRCodeSignature(ticket, data))
}

func TestQRCodeSignatureRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "qr-secret")
	ticket := &models.Ticket{
		ID:      uuid.New(),
		EventID: uuid.New(),
		UserID:  uuid.New(),
	}
	data := generateQRCodeData(ticket)

	// Payload rebound to a different ticket must fail verification.
	other := &models.Ticket{ID: uuid.New(), EventID: ticket.EventID, UserID: ticket.UserID}
	assert.False(t, validateQRCodeSignature(other, data))
}

func TestExtractTicketIDFromQRDataRejectsGarbage(t *testing.T) {
	_, err := extractTicketIDFromQRData("not-a-qr-payload")
	assert.Error(t, err)

	_, err = extractTicketIDFromQRData("ticket:nope;event:x;signature:y")
	assert.Error(t, err)
}
