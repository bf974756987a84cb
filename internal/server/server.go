package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventbook/config"
	"eventbook/internal/booking"
	"eventbook/internal/catalog"
	"eventbook/internal/directory"
	"eventbook/internal/feedback"
	"eventbook/internal/handlers"
	"eventbook/internal/ledger"
	"eventbook/internal/middleware"
	"eventbook/internal/notify"
	"eventbook/internal/tickets"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	eventCatalog := catalog.NewGormCatalog(db)

	var idempotency *booking.IdempotencyStore
	if rdb := config.InitRedis(cfg); rdb != nil {
		idempotency = booking.NewIdempotencyStore(rdb, 24*time.Hour)
	}

	coordinator := booking.NewCoordinator(booking.Config{
		Ledger:      ledger.NewGormLedger(db),
		Tickets:     tickets.NewGormStore(db),
		Catalog:     eventCatalog,
		Directory:   directory.NewGormDirectory(db),
		Broadcaster: notify.NewBroadcaster(notify.NewStoreSender(db), 30*time.Second),
		Idempotency: idempotency,
	})
	defer coordinator.Close()

	collector := feedback.NewCollector(eventCatalog, feedback.NewGormStore(db))

	bookingLimiter := middleware.NewRateLimiter(middleware.LimiterConfig{
		RPS:     5,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})
	defer bookingLimiter.Close()

	r := gin.Default()

	setupRoutes(r, db, coordinator, collector, bookingLimiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, coordinator *booking.Coordinator, collector *feedback.Collector, bookingLimiter *middleware.RateLimiter) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.BookingMiddleware(coordinator))
	r.Use(middleware.FeedbackMiddleware(collector))

	public := r.Group("/v1")
	{
		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
	}

	user := r.Group("/v1")
	user.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("user"))
	{
		user.POST("/bookings", bookingLimiter.Middleware(middleware.ByCaller), handlers.BookTicket)
		user.POST("/tickets/:id/cancel", bookingLimiter.Middleware(middleware.ByCaller), handlers.CancelTicket)
		user.GET("/tickets", handlers.ListMyTickets)
		user.GET("/tickets/:id/qr", handlers.GenerateTicketQR)
		user.GET("/notifications", handlers.ListNotifications)
		user.DELETE("/notifications/:id", handlers.DeleteNotification)
		user.POST("/events/:id/feedback", handlers.SubmitFeedback)
	}

	organizer := r.Group("/v1")
	organizer.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("organizer"))
	{
		organizer.POST("/events", handlers.CreateEvent)
		organizer.PUT("/events/:id", handlers.UpdateEvent)
		organizer.DELETE("/events/:id", handlers.DeleteEvent)
		organizer.GET("/organizer/events", handlers.ListOrganizerEvents)
		organizer.GET("/events/:id/tickets", handlers.ListEventTickets)
		organizer.GET("/events/:id/feedback", handlers.ListEventFeedback)
		organizer.POST("/validate-ticket", handlers.ValidateTicket)
	}
}
