package booking

import (
	"context"

	"spabook/models"
)

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED. The client, the
// provider or an admin may cancel, subject to the cancellation window. The
// committed row is the interval's claim, so the status change itself frees
// the slot for later overlap checks.
func (s *DefaultLifecycleService) Cancel(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := authorizeParty(actor, b); err != nil {
		return nil, err
	}
	if !b.Status.Active() {
		return nil, NewInvalidStateTransitionError(string(b.Status), "cancel")
	}

	now := s.now()
	if err := s.Policy.CheckCancellable(now, b.StartTime); err != nil {
		return nil, err
	}

	prev := b.Status
	b.Status = models.BookingCancelled
	b.CancelledAt = &now
	b.CancelledBy = actor.ID
	b.CancellationReason = reason
	if err := s.commitTransition(ctx, b, prev); err != nil {
		return nil, err
	}

	cancelled := *b
	s.dispatch("bookingCancelled", b.ID, func(ctx context.Context) error {
		return s.Notifier.BookingCancelled(ctx, &cancelled)
	})
	return b, nil
}

// authorizeParty allows the booking's client, its provider, or an admin.
func authorizeParty(actor models.Actor, b *models.Booking) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleClient:
		if actor.ID == b.ClientID {
			return nil
		}
	case models.RoleProvider:
		if actor.ID == b.ProviderID {
			return nil
		}
	}
	return NewAuthorizationError("actor is not a party to this booking")
}
