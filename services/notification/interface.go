package notification

import (
	"context"

	"spabook/models"
)

// NotificationService is the outbound port fired on successful booking
// transitions. Calls are fire-and-forget: the lifecycle never consumes a
// return value beyond logging, and a failure never rolls back a transition.
type NotificationService interface {
	BookingCreated(ctx context.Context, b *models.Booking) error
	BookingConfirmed(ctx context.Context, b *models.Booking) error
	BookingCancelled(ctx context.Context, b *models.Booking) error
	BookingCompleted(ctx context.Context, b *models.Booking) error
	BookingRescheduled(ctx context.Context, b *models.Booking) error
	BookingReminder(ctx context.Context, b *models.Booking) error
}
