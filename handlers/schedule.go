package handlers

import (
	"net/http"
	"time"

	scheduleRepo "spabook/database/repository/schedule"
	"spabook/middleware"
	"spabook/models"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler exposes provider-facing schedule configuration: the weekly
// template rows and date-specific exceptions the availability engine reads.
type ScheduleHandler struct {
	Repo scheduleRepo.Repository
}

func NewScheduleHandler(repo scheduleRepo.Repository) *ScheduleHandler {
	return &ScheduleHandler{Repo: repo}
}

func (h *ScheduleHandler) authorizeProvider(c *gin.Context, providerID string) bool {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return false
	}
	if actor.Role != models.RoleAdmin && actor.ID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not this provider"})
		return false
	}
	return true
}

// UpsertWeeklyTemplate handles PUT /api/providers/:id/schedule/weekly.
func (h *ScheduleHandler) UpsertWeeklyTemplate(c *gin.Context) {
	providerID := c.Param("id")
	if !h.authorizeProvider(c, providerID) {
		return
	}

	var tpl models.WeeklyTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dayOfWeek must be 0..6"})
		return
	}
	if tpl.IsWorkingDay {
		if tpl.EndMinute <= tpl.StartMinute {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endMinute must be after startMinute"})
			return
		}
		if tpl.SlotDurationMinutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slotDurationMinutes must be positive"})
			return
		}
		if tpl.BufferMinutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bufferMinutes must not be negative"})
			return
		}
	}
	tpl.ProviderID = providerID

	if err := h.Repo.UpsertWeeklyTemplate(c.Request.Context(), &tpl); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// UpsertException handles PUT /api/providers/:id/schedule/exceptions.
func (h *ScheduleHandler) UpsertException(c *gin.Context) {
	providerID := c.Param("id")
	if !h.authorizeProvider(c, providerID) {
		return
	}

	var ex models.ScheduleException
	if err := c.ShouldBindJSON(&ex); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", ex.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if !ex.IsDayOff && ex.OverrideStart != nil && ex.OverrideEnd != nil && *ex.OverrideEnd <= *ex.OverrideStart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "overrideEnd must be after overrideStart"})
		return
	}
	ex.ProviderID = providerID

	if err := h.Repo.UpsertException(c.Request.Context(), &ex); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}
