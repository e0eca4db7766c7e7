package routes

import (
	"spabook/handlers"

	"github.com/gin-gonic/gin"
)

// Register wires all endpoints onto the router.
func Register(r *gin.Engine, bh *handlers.BookingHandler, ah *handlers.AvailabilityHandler, sh *handlers.ScheduleHandler) {
	r.GET("/health", handlers.Health)
	RegisterBookingRoutes(r, bh, ah)
	RegisterScheduleRoutes(r, sh)
}
