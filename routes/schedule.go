package routes

import (
	"spabook/handlers"
	"spabook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterScheduleRoutes registers provider schedule configuration endpoints.
func RegisterScheduleRoutes(r *gin.Engine, sh *handlers.ScheduleHandler) {
	schedule := r.Group("/api/providers/:id/schedule")
	schedule.Use(middleware.ActorMiddleware())
	{
		schedule.PUT("/weekly", sh.UpsertWeeklyTemplate)
		schedule.PUT("/exceptions", sh.UpsertException)
	}
}
