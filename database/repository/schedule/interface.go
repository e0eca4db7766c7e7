package scheduleRepo

import (
	"context"

	"spabook/models"
)

// Repository provides access to providers' recurring weekly templates and
// date-specific exceptions. The booking engine only reads; the write methods
// back the provider-facing configuration endpoints.
type Repository interface {
	GetWeeklyTemplate(ctx context.Context, providerID string, dayOfWeek int) (*models.WeeklyTemplate, error)
	GetException(ctx context.Context, providerID string, date string) (*models.ScheduleException, error)

	UpsertWeeklyTemplate(ctx context.Context, tpl *models.WeeklyTemplate) error
	UpsertException(ctx context.Context, ex *models.ScheduleException) error
}
