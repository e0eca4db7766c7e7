package booking

import (
	"context"
	"errors"

	catalogRepo "spabook/database/repository/catalog"
	"spabook/models"

	"github.com/google/uuid"
)

// Create books a new appointment in PENDING. The sequence is: validate the
// request, price it, claim the interval, persist, release the claim. The
// claim stays held until the row is committed so no concurrent Create can
// slip into the same interval.
func (s *DefaultLifecycleService) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	if in.ProviderID == "" || in.ClientID == "" || in.ServiceID == "" {
		return nil, NewValidationError("providerId, clientId and serviceId are required")
	}

	provider, err := s.Catalog.GetProvider(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NewValidationError("unknown provider %s", in.ProviderID)
		}
		return nil, err
	}
	if !provider.Active {
		return nil, NewValidationError("provider %s is not active", in.ProviderID)
	}

	svc, err := s.Catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NewValidationError("unknown service %s", in.ServiceID)
		}
		return nil, err
	}
	if !svc.Active {
		return nil, NewValidationError("service %s is not active", in.ServiceID)
	}
	if svc.ProviderID != in.ProviderID {
		return nil, NewValidationError("service %s does not belong to provider %s", in.ServiceID, in.ProviderID)
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = svc.BaseDurationMinutes
	}
	if duration <= 0 {
		return nil, NewInvalidDurationError(duration)
	}

	now := s.now()
	if err := s.Policy.CheckLeadTime(now, in.StartTime); err != nil {
		return nil, err
	}

	window, err := s.Availability.ResolveWindow(ctx, in.ProviderID, in.StartTime)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, NewSlotAlreadyTakenError("provider has no working window on the requested date")
	}

	free, err := s.Availability.IsSlotFree(ctx, in.ProviderID, in.StartTime, duration, "")
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, NewSlotAlreadyTakenError("requested interval is not available")
	}

	quote, err := s.Pricing.Quote(ctx, svc, duration, in.PromoCode, now)
	if err != nil {
		return nil, err
	}

	token, err := s.Guard.Claim(ctx, in.ProviderID, in.StartTime, duration, window.BufferMinutes, "")
	if err != nil {
		return nil, err
	}
	defer s.Guard.Release(token)

	b := &models.Booking{
		ID:              uuid.New().String(),
		ProviderID:      in.ProviderID,
		ClientID:        in.ClientID,
		ServiceID:       in.ServiceID,
		Status:          models.BookingPending,
		StartTime:       in.StartTime,
		DurationMinutes: duration,
		BufferMinutes:   window.BufferMinutes,
		Price:           quote,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}

	created := *b
	s.dispatch("bookingCreated", b.ID, func(ctx context.Context) error {
		return s.Notifier.BookingCreated(ctx, &created)
	})
	return b, nil
}
