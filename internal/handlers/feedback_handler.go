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
)

type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

func SubmitFeedback(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	collector := middleware.GetCollector(c)
	if collector == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Feedback collector not found.")
		return
	}

	if err := collector.Submit(c.Request.Context(), userID, eventID, req.Rating, req.Comments); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback recorded. Thank you!"})
}

// ListEventFeedback lets the organizer of an event review its ratings.
func ListEventFeedback(c *gin.Context) {
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

	event, err := catalog.NewGormCatalog(db.(*gorm.DB)).Get(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}
	if event.OrganizerID != organizerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view feedback for this event.")
		return
	}

	collector := middleware.GetCollector(c)
	if collector == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Feedback collector not found.")
		return
	}

	list, err := collector.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving feedback.")
		return
	}
	c.JSON(http.StatusOK, list)
}
