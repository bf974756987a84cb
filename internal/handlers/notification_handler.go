package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/helpers"
	"eventbook/internal/middleware"
	"eventbook/internal/notify"
)

func ListNotifications(c *gin.Context) {
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

	list, err := notify.NewStoreSender(db.(*gorm.DB)).ListByUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteNotification removes one of the caller's own notifications.
func DeleteNotification(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid notification ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	err = notify.NewStoreSender(db.(*gorm.DB)).Delete(c.Request.Context(), notificationID, userID)
	if err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting notification.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted."})
}
