package schedule

import (
	"context"
	"errors"
	"time"

	scheduleRepo "spabook/database/repository/schedule"
	"spabook/models"
)

// Catalog resolves the working window for a provider on a given date from the
// recurring weekly template and date-specific exceptions. Pure read model.
type Catalog interface {
	// WorkingWindow returns nil when the date is a day off (from an exception,
	// else from the weekly default when the day is not a working day).
	WorkingWindow(ctx context.Context, providerID string, date time.Time) (*models.WorkingWindow, error)
}

// DefaultCatalog implements Catalog over the schedule repository.
type DefaultCatalog struct {
	Repo scheduleRepo.Repository
}

func NewDefaultCatalog(repo scheduleRepo.Repository) *DefaultCatalog {
	return &DefaultCatalog{Repo: repo}
}

func (c *DefaultCatalog) WorkingWindow(ctx context.Context, providerID string, date time.Time) (*models.WorkingWindow, error) {
	tpl, err := c.Repo.GetWeeklyTemplate(ctx, providerID, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ex, err := c.Repo.GetException(ctx, providerID, models.DateKey(date))
	if err != nil && !errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, err
	}

	if ex != nil {
		if ex.IsDayOff {
			return nil, nil
		}
		// An exception with an override window replaces start/end but keeps
		// the template's slot duration, buffer and break.
		window := windowFromTemplate(tpl)
		if ex.OverrideStart != nil {
			window.StartMinute = *ex.OverrideStart
		}
		if ex.OverrideEnd != nil {
			window.EndMinute = *ex.OverrideEnd
		}
		return window, nil
	}

	if !tpl.IsWorkingDay {
		return nil, nil
	}
	return windowFromTemplate(tpl), nil
}

func windowFromTemplate(tpl *models.WeeklyTemplate) *models.WorkingWindow {
	return &models.WorkingWindow{
		StartMinute:         tpl.StartMinute,
		EndMinute:           tpl.EndMinute,
		BreakStartMinute:    tpl.BreakStartMinute,
		BreakEndMinute:      tpl.BreakEndMinute,
		SlotDurationMinutes: tpl.SlotDurationMinutes,
		BufferMinutes:       tpl.BufferMinutes,
	}
}
