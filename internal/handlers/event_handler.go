package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/booking"
	"eventbook/internal/catalog"
	"eventbook/internal/helpers"
	"eventbook/internal/middleware"
	"eventbook/internal/models"
)

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	TicketPrice int    `json:"ticketPrice"`
	TicketCount int    `json:"ticketCount" binding:"required,min=1"`
}

func CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	category := models.EventCategory(req.Category)
	if !category.Valid() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Unknown event category.")
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
		return
	}
	if endTime.Before(startTime) {
		helpers.RespondWithError(c, http.StatusBadRequest, "End time must come after start time.")
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

	event := models.Event{
		ID:               uuid.New(),
		Name:             req.Name,
		Category:         category,
		Location:         req.Location,
		Address:          req.Address,
		Description:      req.Description,
		StartTime:        startTime,
		EndTime:          endTime,
		TicketPrice:      req.TicketPrice,
		RemainingTickets: req.TicketCount,
		OrganizerID:      organizerID,
	}
	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Event{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	if err := query.Order("start_time ASC").
		Offset((pageNum - 1) * limitNum).
		Limit(limitNum).
		Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  totalCount,
		"page":   pageNum,
		"limit":  limitNum,
	})
}

func ListOrganizerEvents(c *gin.Context) {
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

	var events []models.Event
	if err := gormDB.Where("organizer_id = ?", organizerID).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	TicketPrice *int    `json:"ticketPrice"`
	// Message, when present, is broadcast to every user after the
	// update, independent of the update itself.
	Message string `json:"message"`
}

func UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	fields := catalog.UpdateFields{
		Name:        req.Name,
		Location:    req.Location,
		Address:     req.Address,
		Description: req.Description,
		TicketPrice: req.TicketPrice,
	}
	if req.Category != nil {
		category := models.EventCategory(*req.Category)
		if !category.Valid() {
			helpers.RespondWithError(c, http.StatusBadRequest, "Unknown event category.")
			return
		}
		fields.Category = &category
	}
	if req.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
			return
		}
		fields.StartTime = &startTime
	}
	if req.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
			return
		}
		fields.EndTime = &endTime
	}

	organizerID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	coordinator := middleware.GetCoordinator(c)
	if coordinator == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Coordinator not found.")
		return
	}

	event, report, err := coordinator.UpdateEvent(c.Request.Context(), organizerID, eventID, fields, req.Message)
	if err != nil && !errors.Is(err, booking.ErrPartialDelivery) {
		respondWorkflowError(c, err)
		return
	}

	response := gin.H{"message": "Event updated successfully.", "event": event}
	if report != nil {
		response["notification"] = deliveryReport(report)
	}
	c.JSON(http.StatusOK, response)
}

type DeleteEventRequest struct {
	// Message, when present, is broadcast to every user once the event
	// has been deleted.
	Message string `json:"message"`
}

func DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req DeleteEventRequest
	// The body is optional for deletes.
	_ = c.ShouldBindJSON(&req)

	organizerID, ok := middleware.CallerID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	coordinator := middleware.GetCoordinator(c)
	if coordinator == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Coordinator not found.")
		return
	}

	report, err := coordinator.RemoveEvent(c.Request.Context(), organizerID, eventID, req.Message)
	if err != nil && !errors.Is(err, booking.ErrPartialDelivery) {
		respondWorkflowError(c, err)
		return
	}

	response := gin.H{"message": "Event deleted successfully."}
	if report != nil {
		response["notification"] = deliveryReport(report)
	}
	c.JSON(http.StatusOK, response)
}
