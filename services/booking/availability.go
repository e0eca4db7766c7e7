package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "spabook/database/repository/booking"
	catalogRepo "spabook/database/repository/catalog"
	"spabook/models"
	"spabook/services/schedule"
)

// AvailabilityEngine derives bookable start times from the schedule catalog
// minus existing reservations and buffers.
type AvailabilityEngine interface {
	// ListAvailableSlots returns a lazy, finite, non-restartable iterator over
	// candidate start times grouped by date. Results are computed fresh on
	// every call; nothing is cached across catalog edits.
	ListAvailableSlots(ctx context.Context, providerID, serviceID string, fromDate time.Time, horizonDays int) (*SlotIterator, error)

	// IsSlotFree applies the buffered-interval overlap test to one candidate
	// interval. excludeBookingID ignores that booking's own interval, which
	// reschedule needs.
	IsSlotFree(ctx context.Context, providerID string, startTime time.Time, durationMinutes int, excludeBookingID string) (bool, error)

	// ResolveWindow returns the provider's working window for the instant's
	// provider-local date, or nil on a day off.
	ResolveWindow(ctx context.Context, providerID string, t time.Time) (*models.WorkingWindow, error)
}

// DefaultAvailabilityEngine is the production implementation.
type DefaultAvailabilityEngine struct {
	Bookings bookingRepo.Repository
	Catalog  catalogRepo.Repository
	Schedule schedule.Catalog
}

// providerLocation resolves the provider's IANA timezone. Schedule templates
// are provider-local, so every instant must be mapped into this location
// before its calendar date or weekday means anything.
func (e *DefaultAvailabilityEngine) providerLocation(ctx context.Context, providerID string) (*time.Location, error) {
	p, err := e.Catalog.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NewNotFoundError("provider", providerID)
		}
		return nil, err
	}
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, NewValidationError("provider %s has an invalid timezone %q", providerID, p.Timezone)
	}
	return loc, nil
}

func (e *DefaultAvailabilityEngine) ResolveWindow(ctx context.Context, providerID string, t time.Time) (*models.WorkingWindow, error) {
	loc, err := e.providerLocation(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return e.Schedule.WorkingWindow(ctx, providerID, t.In(loc))
}

func (e *DefaultAvailabilityEngine) ListAvailableSlots(ctx context.Context, providerID, serviceID string, fromDate time.Time, horizonDays int) (*SlotIterator, error) {
	if horizonDays <= 0 {
		return nil, NewValidationError("horizonDays must be positive, got %d", horizonDays)
	}

	loc, err := e.providerLocation(ctx, providerID)
	if err != nil {
		return nil, err
	}

	svc, err := e.Catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, NewNotFoundError("service", serviceID)
		}
		return nil, err
	}
	if svc.ProviderID != providerID {
		return nil, NewValidationError("service %s does not belong to provider %s", serviceID, providerID)
	}
	if svc.BaseDurationMinutes <= 0 {
		return nil, NewInvalidDurationError(svc.BaseDurationMinutes)
	}

	local := fromDate.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return &SlotIterator{
		engine:     e,
		ctx:        ctx,
		providerID: providerID,
		duration:   svc.BaseDurationMinutes,
		day:        day,
		remaining:  horizonDays,
	}, nil
}

// SlotIterator walks the horizon one date at a time. Each Next call resolves
// that date's working window and bookings on demand; the iterator cannot be
// restarted.
type SlotIterator struct {
	engine     *DefaultAvailabilityEngine
	ctx        context.Context
	providerID string
	duration   int
	day        time.Time
	remaining  int
	err        error
}

// Next yields the next date that has at least one free slot, in ascending
// order. It returns false when the horizon is exhausted or an error occurred;
// check Err afterwards.
func (it *SlotIterator) Next() (models.DaySlots, bool) {
	for it.remaining > 0 {
		day := it.day
		it.day = it.day.AddDate(0, 0, 1)
		it.remaining--

		slots, err := it.engine.slotsForDay(it.ctx, it.providerID, day, it.duration)
		if err != nil {
			it.err = err
			it.remaining = 0
			return models.DaySlots{}, false
		}
		if len(slots) > 0 {
			return models.DaySlots{Date: models.DateKey(day), Slots: slots}, true
		}
	}
	return models.DaySlots{}, false
}

// Err reports the failure that stopped iteration, if any.
func (it *SlotIterator) Err() error {
	return it.err
}

// Collect drains the iterator. Handlers use it to build the grouped response.
func (it *SlotIterator) Collect() ([]models.DaySlots, error) {
	var out []models.DaySlots
	for {
		day, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, day)
	}
	return out, it.Err()
}

// slotsForDay generates candidates at slot-duration granularity inside the
// working window and drops those that hit the break or an active booking's
// buffered interval.
func (e *DefaultAvailabilityEngine) slotsForDay(ctx context.Context, providerID string, day time.Time, durationMinutes int) ([]time.Time, error) {
	window, err := e.Schedule.WorkingWindow(ctx, providerID, day)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, nil
	}

	dayStart := day
	existing, err := e.Bookings.ListActiveInRange(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var slots []time.Time
	step := time.Duration(window.SlotDurationMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute

	windowStart := dayStart.Add(time.Duration(window.StartMinute) * time.Minute)
	windowEnd := dayStart.Add(time.Duration(window.EndMinute) * time.Minute)

	for t := windowStart; !t.Add(duration).After(windowEnd); t = t.Add(step) {
		end := t.Add(duration)

		if window.BreakStartMinute != nil && window.BreakEndMinute != nil {
			breakStart := dayStart.Add(time.Duration(*window.BreakStartMinute) * time.Minute)
			breakEnd := dayStart.Add(time.Duration(*window.BreakEndMinute) * time.Minute)
			if t.Before(breakEnd) && breakStart.Before(end) {
				continue
			}
		}

		if overlapsAnyBuffered(t, end, existing) {
			continue
		}
		slots = append(slots, t)
	}
	return slots, nil
}

// overlapsAnyBuffered applies the half-open overlap test between a raw
// candidate interval and each active booking's buffered interval. The buffer
// is a gap between consecutive bookings, so it is counted once: widening both
// sides would double it. A candidate abutting a booking's raw end passes only
// when that booking carries no buffer.
func overlapsAnyBuffered(start, end time.Time, bookings []models.Booking) bool {
	for i := range bookings {
		b := &bookings[i]
		if start.Before(b.BufferedEnd()) && b.BufferedStart().Before(end) {
			return true
		}
	}
	return false
}

func (e *DefaultAvailabilityEngine) IsSlotFree(ctx context.Context, providerID string, startTime time.Time, durationMinutes int, excludeBookingID string) (bool, error) {
	if durationMinutes <= 0 {
		return false, NewInvalidDurationError(durationMinutes)
	}

	loc, err := e.providerLocation(ctx, providerID)
	if err != nil {
		return false, err
	}
	local := startTime.In(loc)

	window, err := e.Schedule.WorkingWindow(ctx, providerID, local)
	if err != nil {
		return false, err
	}
	if window == nil {
		return false, nil
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := startTime.Add(time.Duration(durationMinutes) * time.Minute)

	windowStart := dayStart.Add(time.Duration(window.StartMinute) * time.Minute)
	windowEnd := dayStart.Add(time.Duration(window.EndMinute) * time.Minute)
	if startTime.Before(windowStart) || end.After(windowEnd) {
		return false, nil
	}

	if window.BreakStartMinute != nil && window.BreakEndMinute != nil {
		breakStart := dayStart.Add(time.Duration(*window.BreakStartMinute) * time.Minute)
		breakEnd := dayStart.Add(time.Duration(*window.BreakEndMinute) * time.Minute)
		if startTime.Before(breakEnd) && breakStart.Before(end) {
			return false, nil
		}
	}

	existing, err := e.Bookings.ListActiveInRange(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return false, err
	}

	for i := range existing {
		b := &existing[i]
		if b.ID == excludeBookingID {
			continue
		}
		if startTime.Before(b.BufferedEnd()) && b.BufferedStart().Before(end) {
			return false, nil
		}
	}
	return true, nil
}
