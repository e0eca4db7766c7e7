package routes

import (
	"spabook/handlers"
	"spabook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler, ah *handlers.AvailabilityHandler) {
	// Slot availability is a public read.
	r.GET("/api/providers/:id/slots", ah.ListAvailableSlots)

	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.ActorMiddleware())
	{
		bookings.POST("", bh.CreateBooking)
		bookings.GET("/:id", bh.GetBooking)
		bookings.POST("/:id/confirm", bh.ConfirmBooking)
		bookings.POST("/:id/cancel", bh.CancelBooking)
		bookings.POST("/:id/complete", bh.CompleteBooking)
		bookings.POST("/:id/reschedule", bh.RescheduleBooking)
	}

	provider := r.Group("/api/providers")
	provider.Use(middleware.ActorMiddleware())
	{
		provider.GET("/:id/bookings", bh.ListProviderBookings)
	}
}
