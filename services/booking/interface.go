package booking

import (
	"context"
	"time"

	bookingRepo "spabook/database/repository/booking"
	catalogRepo "spabook/database/repository/catalog"
	"spabook/models"
	"spabook/services/notification"
	"spabook/services/payment"
)

// CreateInput carries the CreateBooking command.
type CreateInput struct {
	ProviderID      string
	ClientID        string
	ServiceID       string
	StartTime       time.Time
	DurationMinutes int // 0 means the service's base duration
	Notes           string
	PromoCode       string
}

// RescheduleInput carries the RescheduleBooking command.
type RescheduleInput struct {
	BookingID       string
	Actor           models.Actor
	NewStartTime    time.Time
	NewDurationMins int // 0 keeps the current duration
}

// LifecycleService owns the Booking entity and its state machine. Every
// mutating command is atomic per provider: no two commands for the same
// provider can interleave their overlap checks.
type LifecycleService interface {
	Create(ctx context.Context, in CreateInput) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Reschedule(ctx context.Context, in RescheduleInput) (*models.Booking, error)

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)

	// ExpireStalePending cancels PENDING bookings whose start time passed
	// without confirmation. Invoked by the background sweeper, never by users.
	ExpireStalePending(ctx context.Context, now time.Time) (int, error)
}

// DefaultLifecycleService is the production implementation.
type DefaultLifecycleService struct {
	Repo         bookingRepo.Repository
	Catalog      catalogRepo.Repository
	Availability AvailabilityEngine
	Pricing      PricingCalculator
	Guard        ConflictGuard
	Notifier     notification.NotificationService
	Payments     payment.PaymentProcessor
	Reminders    ReminderScheduler // optional, wired when the worker runs
	Policy       Policy
	Clock        func() time.Time // defaults to time.Now
}

func (s *DefaultLifecycleService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
