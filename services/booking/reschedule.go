package booking

import (
	"context"

	"spabook/models"
)

// Reschedule moves an active booking to a new start time (and optionally a
// new duration) under the same booking id. The new interval is claimed while
// the booking's own committed row is excluded from the overlap check, so the
// release of the old interval and the acquisition of the new one commit as
// one step.
func (s *DefaultLifecycleService) Reschedule(ctx context.Context, in RescheduleInput) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	if err := authorizeParty(in.Actor, b); err != nil {
		return nil, err
	}
	if !b.Status.Active() {
		return nil, NewInvalidStateTransitionError(string(b.Status), "reschedule")
	}

	now := s.now()
	if err := s.Policy.CheckReschedulable(now, b.StartTime); err != nil {
		return nil, err
	}
	if err := s.Policy.CheckLeadTime(now, in.NewStartTime); err != nil {
		return nil, err
	}

	duration := in.NewDurationMins
	if duration == 0 {
		duration = b.DurationMinutes
	}
	if duration <= 0 {
		return nil, NewInvalidDurationError(duration)
	}

	window, err := s.Availability.ResolveWindow(ctx, b.ProviderID, in.NewStartTime)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, NewSlotAlreadyTakenError("provider has no working window on the requested date")
	}

	free, err := s.Availability.IsSlotFree(ctx, b.ProviderID, in.NewStartTime, duration, b.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, NewSlotAlreadyTakenError("requested interval is not available")
	}

	// Price is recomputed only when the duration changes; the original promo
	// discount carries through.
	price := b.Price
	if duration != b.DurationMinutes {
		svc, err := s.Catalog.GetService(ctx, b.ServiceID)
		if err != nil {
			return nil, err
		}
		price, err = CalculateQuote(svc.BasePrice, svc.BaseDurationMinutes, duration, svc.LocationSurcharge, b.Price.Discount)
		if err != nil {
			return nil, err
		}
		price.PromoCode = b.Price.PromoCode
	}

	token, err := s.Guard.Claim(ctx, b.ProviderID, in.NewStartTime, duration, window.BufferMinutes, b.ID)
	if err != nil {
		return nil, err
	}
	defer s.Guard.Release(token)

	b.StartTime = in.NewStartTime
	b.DurationMinutes = duration
	b.BufferMinutes = window.BufferMinutes
	b.Price = price
	b.RescheduledAt = &now
	b.RescheduleCount++
	// Status is unchanged by a reschedule; preconditioning on it still fences
	// off a cancel or confirm that committed since our read.
	if err := s.commitTransition(ctx, b, b.Status); err != nil {
		return nil, err
	}

	rescheduled := *b
	s.dispatch("bookingRescheduled", b.ID, func(ctx context.Context) error {
		return s.Notifier.BookingRescheduled(ctx, &rescheduled)
	})
	return b, nil
}
