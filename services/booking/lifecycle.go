package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "spabook/database/repository/booking"
	"spabook/models"

	"go.uber.org/zap"
)

// ReminderScheduler is an optional side-effect sink: when set, Confirm hands
// the booking over so a reminder fires before the appointment starts.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b *models.Booking) error
}

func (s *DefaultLifecycleService) logger() *zap.Logger {
	return zap.L()
}

// dispatch runs a port call in the background. Port failures are logged and
// never surface as a failure of the triggering command; a panicking port must
// not take the process down.
func (s *DefaultLifecycleService) dispatch(event string, bookingID string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger().Error("port call panicked",
					zap.String("event", event),
					zap.String("bookingId", bookingID),
					zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger().Warn("port call failed",
				zap.String("event", event),
				zap.String("bookingId", bookingID),
				zap.Error(err))
		}
	}()
}

func (s *DefaultLifecycleService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking", id)
		}
		return nil, err
	}
	return b, nil
}

// commitTransition writes the mutated booking with its pre-transition status
// as the precondition. Losing the write to a concurrent command is a
// concurrencyConflict: the caller's read is stale and nothing was applied.
func (s *DefaultLifecycleService) commitTransition(ctx context.Context, b *models.Booking, prev models.BookingStatus) error {
	if err := s.Repo.Update(ctx, b, prev); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return NewConcurrencyConflictError("booking was modified by a concurrent command")
		}
		return err
	}
	return nil
}

func (s *DefaultLifecycleService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

func (s *DefaultLifecycleService) ListProviderBookings(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	return s.Repo.ListByProviderRange(ctx, providerID, from, to)
}

// ExpireStalePending cancels PENDING bookings whose start time has passed
// without the provider confirming. The cancellation-window policy does not
// apply: this is a system sweep, not a user command.
func (s *DefaultLifecycleService) ExpireStalePending(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.Repo.ListStalePending(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		b := stale[i]
		cancelledAt := now
		b.Status = models.BookingCancelled
		b.CancelledAt = &cancelledAt
		b.CancelledBy = models.RoleSystem
		b.CancellationReason = "not confirmed before start time"
		if err := s.Repo.Update(ctx, &b, models.BookingPending); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				// Confirmed or cancelled since the scan; nothing to expire.
				continue
			}
			s.logger().Warn("failed to expire stale pending booking",
				zap.String("bookingId", b.ID),
				zap.Error(err))
			continue
		}
		expired++

		expiredCopy := b
		s.dispatch("bookingCancelled", b.ID, func(ctx context.Context) error {
			return s.Notifier.BookingCancelled(ctx, &expiredCopy)
		})
	}
	return expired, nil
}
