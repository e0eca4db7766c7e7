package handlers

import (
	"net/http"
	"strconv"
	"time"

	"spabook/config"
	"spabook/services/booking"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the slot query.
type AvailabilityHandler struct {
	Engine booking.AvailabilityEngine
}

func NewAvailabilityHandler(engine booking.AvailabilityEngine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// ListAvailableSlots handles GET /api/providers/:id/slots?serviceId=...&from=YYYY-MM-DD&days=N.
// The response groups candidate start times by date.
func (h *AvailabilityHandler) ListAvailableSlots(c *gin.Context) {
	providerID := c.Param("id")
	serviceID := c.Query("serviceId")
	if serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId query parameter is required"})
		return
	}

	from := time.Now()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	days := config.AppConfig.BookingHorizonDays
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		if parsed < days {
			days = parsed
		}
	}

	iter, err := h.Engine.ListAvailableSlots(c.Request.Context(), providerID, serviceID, from, days)
	if err != nil {
		respondError(c, err)
		return
	}
	groups, err := iter.Collect()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "serviceId": serviceID, "days": groups})
}
