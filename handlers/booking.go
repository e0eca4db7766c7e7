package handlers

import (
	"net/http"
	"time"

	"spabook/middleware"
	"spabook/models"
	"spabook/services/booking"
	"spabook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle commands over HTTP.
type BookingHandler struct {
	Service booking.LifecycleService
}

func NewBookingHandler(svc booking.LifecycleService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// statusForError maps domain error codes to HTTP statuses. Non-domain errors
// are genuine faults and surface as 500.
func statusForError(err error) int {
	switch booking.CodeOf(err) {
	case booking.CodeValidation, booking.CodeInvalidDuration, booking.CodeInvalidPromoCode:
		return http.StatusBadRequest
	case booking.CodeAuthorization:
		return http.StatusForbidden
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeSlotAlreadyTaken, booking.CodeInvalidStateChange, booking.CodeConcurrencyConflict:
		return http.StatusConflict
	case booking.CodePolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		utils.JSONError(c, status, "internal error", err.Error())
		return
	}
	c.JSON(status, utils.ErrorResponse{Code: booking.CodeOf(err), Message: err.Error()})
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input struct {
		ProviderID      string    `json:"providerId" binding:"required"`
		ServiceID       string    `json:"serviceId" binding:"required"`
		StartTime       time.Time `json:"startTime" binding:"required"`
		DurationMinutes int       `json:"durationMinutes"`
		Notes           string    `json:"notes"`
		PromoCode       string    `json:"promoCode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.Create(c.Request.Context(), booking.CreateInput{
		ProviderID:      input.ProviderID,
		ClientID:        actor.ID,
		ServiceID:       input.ServiceID,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		PromoCode:       input.PromoCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ConfirmBooking handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	b, err := h.Service.Confirm(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input) // reason is optional

	b, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), actor, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBooking handles POST /api/bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	b, err := h.Service.Complete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RescheduleBooking handles POST /api/bookings/:id/reschedule.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input struct {
		NewStartTime    time.Time `json:"newStartTime" binding:"required"`
		NewDurationMins int       `json:"newDurationMinutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.Reschedule(c.Request.Context(), booking.RescheduleInput{
		BookingID:       c.Param("id"),
		Actor:           actor,
		NewStartTime:    input.NewStartTime,
		NewDurationMins: input.NewDurationMins,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if actor.Role != models.RoleAdmin && actor.ID != b.ClientID && actor.ID != b.ProviderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a party to this booking"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListProviderBookings handles GET /api/providers/:id/bookings?from=...&to=...
func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	providerID := c.Param("id")
	if actor.Role != models.RoleAdmin && actor.ID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not this provider"})
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	bookings, err := h.Service.ListProviderBookings(c.Request.Context(), providerID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
