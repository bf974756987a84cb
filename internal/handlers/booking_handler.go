package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/catalog"
	"eventbook/internal/helpers"
	"eventbook/internal/middleware"
	"eventbook/internal/tickets"
)

type BookTicketRequest struct {
	EventID     string `json:"event_id" binding:"required"`
	TicketCount int    `json:"ticket_count" binding:"required,min=1"`
}

func BookTicket(c *gin.Context) {
	var req BookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	coordinator := middleware.GetCoordinator(c)
	if coordinator == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Coordinator not found.")
		return
	}

	ticket, err := coordinator.Book(c.Request.Context(), userID, eventID, req.TicketCount, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tickets booked successfully.",
		"ticket":  ticket,
	})
}

func CancelTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	coordinator := middleware.GetCoordinator(c)
	if coordinator == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Coordinator not found.")
		return
	}

	ticket, err := coordinator.Cancel(c.Request.Context(), userID, ticketID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket cancelled successfully.",
		"ticket":  ticket,
	})
}

func ListMyTickets(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	store := tickets.NewGormStore(db.(*gorm.DB))

	list, err := store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListEventTickets is the organizer's ticket history for one event.
func ListEventTickets(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	organizerID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, err := catalog.NewGormCatalog(gormDB).Get(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}
	if event.OrganizerID != organizerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view tickets for this event.")
		return
	}

	list, err := tickets.NewGormStore(gormDB).ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}
	c.JSON(http.StatusOK, list)
}
