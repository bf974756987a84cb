package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventbook/internal/booking"
	"eventbook/internal/feedback"
)

// DatabaseMiddleware makes the shared gorm handle available to
// handlers.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

// BookingMiddleware injects the workflow coordinator.
func BookingMiddleware(coordinator *booking.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("coordinator", coordinator)
		c.Next()
	}
}

// GetCoordinator pulls the coordinator back out of the gin context.
func GetCoordinator(c *gin.Context) *booking.Coordinator {
	value, exists := c.Get("coordinator")
	if !exists {
		return nil
	}
	return value.(*booking.Coordinator)
}

// FeedbackMiddleware injects the feedback collector.
func FeedbackMiddleware(collector *feedback.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("feedback", collector)
		c.Next()
	}
}

// GetCollector pulls the feedback collector back out of the gin
// context.
func GetCollector(c *gin.Context) *feedback.Collector {
	value, exists := c.Get("feedback")
	if !exists {
		return nil
	}
	return value.(*feedback.Collector)
}
