package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/constructai/demobooking/internal/transport/middleware"
)

func InitRoutes(bookingHandler *BookingHandler, slotHandler *SlotHandler) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		// Slot routes
		api.GET("/available-slots", slotHandler.ListAvailableSlots)

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.ScheduleDemo)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/stats", bookingHandler.GetStats)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.PUT("/:id/status", bookingHandler.UpdateStatus)
			bookings.POST("/:id/reschedule", bookingHandler.Reschedule)
			bookings.DELETE("/:id", bookingHandler.CancelBooking)
		}

		// Contact routes
		contacts := api.Group("/contacts")
		{
			contacts.POST("/register", bookingHandler.RegisterContact)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
