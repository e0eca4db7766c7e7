package booking

import (
	"context"

	"spabook/models"
)

// Complete moves a CONFIRMED booking to COMPLETED once the appointment has
// started. Settlement runs in the background; its outcome never changes the
// completed status.
func (s *DefaultLifecycleService) Complete(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleProvider || actor.ID != b.ProviderID {
		return nil, NewAuthorizationError("only the booking's provider can complete it")
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewInvalidStateTransitionError(string(b.Status), "complete")
	}

	now := s.now()
	if now.Before(b.StartTime) {
		return nil, NewPolicyViolationError("booking cannot be completed before its start time")
	}

	b.Status = models.BookingCompleted
	b.CompletedAt = &now
	if err := s.commitTransition(ctx, b, models.BookingConfirmed); err != nil {
		return nil, err
	}

	completed := *b
	s.dispatch("paymentSettle", b.ID, func(ctx context.Context) error {
		_, err := s.Payments.Settle(ctx, &completed)
		return err
	})
	s.dispatch("bookingCompleted", b.ID, func(ctx context.Context) error {
		return s.Notifier.BookingCompleted(ctx, &completed)
	})
	return b, nil
}
