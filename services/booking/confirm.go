package booking

import (
	"context"

	"spabook/models"
)

// Confirm moves a PENDING booking to CONFIRMED. Only the booking's provider
// may confirm.
func (s *DefaultLifecycleService) Confirm(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleProvider || actor.ID != b.ProviderID {
		return nil, NewAuthorizationError("only the booking's provider can confirm it")
	}
	if b.Status != models.BookingPending {
		return nil, NewInvalidStateTransitionError(string(b.Status), "confirm")
	}

	now := s.now()
	b.Status = models.BookingConfirmed
	b.ConfirmedAt = &now
	if err := s.commitTransition(ctx, b, models.BookingPending); err != nil {
		return nil, err
	}

	confirmed := *b
	s.dispatch("bookingConfirmed", b.ID, func(ctx context.Context) error {
		return s.Notifier.BookingConfirmed(ctx, &confirmed)
	})
	if s.Reminders != nil {
		s.dispatch("bookingReminderScheduled", b.ID, func(ctx context.Context) error {
			return s.Reminders.ScheduleReminder(ctx, &confirmed)
		})
	}
	return b, nil
}
