package schedule

import (
	"context"
	"testing"
	"time"

	scheduleRepo "spabook/database/repository/schedule"
	"spabook/models"
)

type stubRepo struct {
	templates  map[int]models.WeeklyTemplate
	exceptions map[string]models.ScheduleException
}

func (r *stubRepo) GetWeeklyTemplate(_ context.Context, _ string, dayOfWeek int) (*models.WeeklyTemplate, error) {
	tpl, ok := r.templates[dayOfWeek]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &tpl, nil
}

func (r *stubRepo) GetException(_ context.Context, _ string, date string) (*models.ScheduleException, error) {
	ex, ok := r.exceptions[date]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &ex, nil
}

func (r *stubRepo) UpsertWeeklyTemplate(_ context.Context, tpl *models.WeeklyTemplate) error {
	r.templates[tpl.DayOfWeek] = *tpl
	return nil
}

func (r *stubRepo) UpsertException(_ context.Context, ex *models.ScheduleException) error {
	r.exceptions[ex.Date] = *ex
	return nil
}

func intPtr(v int) *int { return &v }

func newStubRepo() *stubRepo {
	r := &stubRepo{
		templates:  make(map[int]models.WeeklyTemplate),
		exceptions: make(map[string]models.ScheduleException),
	}
	// Monday working, Sunday off.
	r.templates[1] = models.WeeklyTemplate{
		ProviderID:          "prov-1",
		DayOfWeek:           1,
		IsWorkingDay:        true,
		StartMinute:         9 * 60,
		EndMinute:           18 * 60,
		BreakStartMinute:    intPtr(13 * 60),
		BreakEndMinute:      intPtr(14 * 60),
		SlotDurationMinutes: 60,
		BufferMinutes:       15,
	}
	r.templates[0] = models.WeeklyTemplate{
		ProviderID:   "prov-1",
		DayOfWeek:    0,
		IsWorkingDay: false,
	}
	return r
}

var (
	monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

func TestWorkingWindowFromTemplate(t *testing.T) {
	c := NewDefaultCatalog(newStubRepo())

	w, err := c.WorkingWindow(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w == nil {
		t.Fatal("expected a window on a working day")
	}
	if w.StartMinute != 9*60 || w.EndMinute != 18*60 {
		t.Fatalf("got window %d-%d, want 540-1080", w.StartMinute, w.EndMinute)
	}
	if w.BreakStartMinute == nil || *w.BreakStartMinute != 13*60 {
		t.Fatalf("break start not carried over: %v", w.BreakStartMinute)
	}
	if w.SlotDurationMinutes != 60 || w.BufferMinutes != 15 {
		t.Fatalf("slot/buffer not carried over: %+v", w)
	}
}

func TestWorkingWindowNonWorkingDay(t *testing.T) {
	c := NewDefaultCatalog(newStubRepo())

	w, err := c.WorkingWindow(context.Background(), "prov-1", sunday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w != nil {
		t.Fatalf("expected no window on a non-working day, got %+v", w)
	}
}

func TestWorkingWindowMissingTemplate(t *testing.T) {
	c := NewDefaultCatalog(newStubRepo())

	// No template row for Tuesday at all.
	w, err := c.WorkingWindow(context.Background(), "prov-1", monday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w != nil {
		t.Fatalf("missing template means day off, got %+v", w)
	}
}

func TestWorkingWindowDayOffException(t *testing.T) {
	repo := newStubRepo()
	repo.exceptions["2026-03-02"] = models.ScheduleException{
		ProviderID: "prov-1",
		Date:       "2026-03-02",
		IsDayOff:   true,
	}
	c := NewDefaultCatalog(repo)

	w, err := c.WorkingWindow(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w != nil {
		t.Fatalf("day-off exception must win over the template, got %+v", w)
	}
}

func TestWorkingWindowOverrideException(t *testing.T) {
	repo := newStubRepo()
	repo.exceptions["2026-03-02"] = models.ScheduleException{
		ProviderID:    "prov-1",
		Date:          "2026-03-02",
		OverrideStart: intPtr(11 * 60),
		OverrideEnd:   intPtr(15 * 60),
	}
	c := NewDefaultCatalog(repo)

	w, err := c.WorkingWindow(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w == nil {
		t.Fatal("override exception should keep the day open")
	}
	if w.StartMinute != 11*60 || w.EndMinute != 15*60 {
		t.Fatalf("got window %d-%d, want 660-900", w.StartMinute, w.EndMinute)
	}
	// Slot duration and buffer come from the template even under an override.
	if w.SlotDurationMinutes != 60 || w.BufferMinutes != 15 {
		t.Fatalf("override must not touch slot duration or buffer: %+v", w)
	}
}

func TestWorkingWindowOverrideOpensRestDay(t *testing.T) {
	repo := newStubRepo()
	repo.exceptions["2026-03-01"] = models.ScheduleException{
		ProviderID:    "prov-1",
		Date:          "2026-03-01",
		OverrideStart: intPtr(10 * 60),
		OverrideEnd:   intPtr(14 * 60),
	}
	c := NewDefaultCatalog(repo)

	w, err := c.WorkingWindow(context.Background(), "prov-1", sunday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w == nil {
		t.Fatal("an override exception opens an otherwise closed day")
	}
	if w.StartMinute != 10*60 || w.EndMinute != 14*60 {
		t.Fatalf("got window %d-%d, want 600-840", w.StartMinute, w.EndMinute)
	}
}

func TestWorkingWindowPartialOverride(t *testing.T) {
	repo := newStubRepo()
	repo.exceptions["2026-03-02"] = models.ScheduleException{
		ProviderID:    "prov-1",
		Date:          "2026-03-02",
		OverrideStart: intPtr(12 * 60),
	}
	c := NewDefaultCatalog(repo)

	w, err := c.WorkingWindow(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("WorkingWindow: %v", err)
	}
	if w == nil {
		t.Fatal("expected a window")
	}
	if w.StartMinute != 12*60 || w.EndMinute != 18*60 {
		t.Fatalf("got window %d-%d, want 720-1080 (end from template)", w.StartMinute, w.EndMinute)
	}
}
