package bookingRepo

import (
	"context"
	"time"

	"spabook/models"
)

// Repository defines persistence for booking records. Implementations must
// treat records as append-and-update only: bookings are never deleted.
type Repository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// Update replaces the booking row only while its stored status still is
	// expectedStatus, and returns ErrStatusConflict otherwise. Transition
	// commands read, check and write without holding a lock; the status
	// precondition is what keeps a stale write from resurrecting a booking
	// another command already moved on.
	Update(ctx context.Context, b *models.Booking, expectedStatus models.BookingStatus) error

	// ListActiveInRange returns bookings for the provider with status in
	// {PENDING, CONFIRMED} whose buffered intervals intersect [from, to).
	ListActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)

	// ListByProviderRange returns all bookings (any status) for the provider
	// starting within [from, to), for dashboard reads.
	ListByProviderRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)

	// ListStalePending returns PENDING bookings whose start time is before the
	// given instant; used by the expiry sweeper.
	ListStalePending(ctx context.Context, before time.Time) ([]models.Booking, error)
}
