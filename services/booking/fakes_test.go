package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	bookingRepo "spabook/database/repository/booking"
	catalogRepo "spabook/database/repository/catalog"
	scheduleRepo "spabook/database/repository/schedule"
	"spabook/models"
	"spabook/services/schedule"
)

// memBookingRepo is an in-memory bookingRepo.Repository for tests.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking

	// failListActive makes the next N ListActiveInRange calls fail, to drive
	// the conflict guard's retry path.
	failListActive int

	// beforeUpdate runs outside the lock at the top of Update, letting a test
	// interleave another command between a read and its write.
	beforeUpdate func()
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := b
	return &out, nil
}

func (r *memBookingRepo) Update(_ context.Context, b *models.Booking, expectedStatus models.BookingStatus) error {
	if hook := r.beforeUpdate; hook != nil {
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if stored.Status != expectedStatus {
		return bookingRepo.ErrStatusConflict
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *memBookingRepo) ListActiveInRange(_ context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failListActive > 0 {
		r.failListActive--
		return nil, errors.New("storage unavailable")
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID != providerID || !b.Status.Active() {
			continue
		}
		if b.BufferedStart().Before(to) && from.Before(b.BufferedEnd()) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memBookingRepo) ListByProviderRange(_ context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && !b.StartTime.Before(from) && b.StartTime.Before(to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memBookingRepo) ListStalePending(_ context.Context, before time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingPending && b.StartTime.Before(before) {
			out = append(out, b)
		}
	}
	return out, nil
}

// memScheduleRepo is an in-memory scheduleRepo.Repository for tests.
type memScheduleRepo struct {
	templates  map[int]models.WeeklyTemplate // keyed by weekday, single provider
	exceptions map[string]models.ScheduleException
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{
		templates:  make(map[int]models.WeeklyTemplate),
		exceptions: make(map[string]models.ScheduleException),
	}
}

func (r *memScheduleRepo) GetWeeklyTemplate(_ context.Context, _ string, dayOfWeek int) (*models.WeeklyTemplate, error) {
	tpl, ok := r.templates[dayOfWeek]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &tpl, nil
}

func (r *memScheduleRepo) GetException(_ context.Context, _ string, date string) (*models.ScheduleException, error) {
	ex, ok := r.exceptions[date]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &ex, nil
}

func (r *memScheduleRepo) UpsertWeeklyTemplate(_ context.Context, tpl *models.WeeklyTemplate) error {
	r.templates[tpl.DayOfWeek] = *tpl
	return nil
}

func (r *memScheduleRepo) UpsertException(_ context.Context, ex *models.ScheduleException) error {
	r.exceptions[ex.Date] = *ex
	return nil
}

// memCatalogRepo is an in-memory catalogRepo.Repository for tests.
type memCatalogRepo struct {
	providers map[string]models.Provider
	services  map[string]models.Service
	promos    map[string]models.PromoCode
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		providers: make(map[string]models.Provider),
		services:  make(map[string]models.Service),
		promos:    make(map[string]models.PromoCode),
	}
}

func (r *memCatalogRepo) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &p, nil
}

func (r *memCatalogRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &s, nil
}

func (r *memCatalogRepo) GetPromoCode(_ context.Context, code string) (*models.PromoCode, error) {
	p, ok := r.promos[code]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &p, nil
}

// captureNotifier records which events fired.
type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) record(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *captureNotifier) BookingCreated(context.Context, *models.Booking) error {
	return n.record("created")
}
func (n *captureNotifier) BookingConfirmed(context.Context, *models.Booking) error {
	return n.record("confirmed")
}
func (n *captureNotifier) BookingCancelled(context.Context, *models.Booking) error {
	return n.record("cancelled")
}
func (n *captureNotifier) BookingCompleted(context.Context, *models.Booking) error {
	return n.record("completed")
}
func (n *captureNotifier) BookingRescheduled(context.Context, *models.Booking) error {
	return n.record("rescheduled")
}
func (n *captureNotifier) BookingReminder(context.Context, *models.Booking) error {
	return n.record("reminder")
}

// testEnv wires the lifecycle service over the in-memory fakes with a fixed
// clock. The seeded provider works Mon-Fri 09:00-18:00 with a 13:00-14:00
// break, 60-minute slots and a 15-minute buffer.
type testEnv struct {
	repo     *memBookingRepo
	sched    *memScheduleRepo
	catalog  *memCatalogRepo
	notifier *captureNotifier
	payments *capturePayments
	engine   *DefaultAvailabilityEngine
	svc      *DefaultLifecycleService

	now time.Time
}

const (
	testProviderID = "prov-1"
	testClientID   = "client-1"
	testServiceID  = "svc-1"
)

// testMonday is a Monday; the fixed clock starts at 08:00 that morning.
var testMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     newMemBookingRepo(),
		sched:    newMemScheduleRepo(),
		catalog:  newMemCatalogRepo(),
		notifier: &captureNotifier{},
		payments: &capturePayments{},
		now:      testMonday.Add(8 * time.Hour),
	}

	env.catalog.providers[testProviderID] = models.Provider{ID: testProviderID, Name: "Alma Spa", Timezone: "UTC", Active: true}
	env.catalog.services[testServiceID] = models.Service{
		ID:                  testServiceID,
		ProviderID:          testProviderID,
		Name:                "Deep Tissue Massage",
		BasePrice:           100,
		BaseDurationMinutes: 60,
		Active:              true,
	}

	breakStart, breakEnd := 13*60, 14*60
	for dow := 1; dow <= 5; dow++ {
		env.sched.templates[dow] = models.WeeklyTemplate{
			ProviderID:          testProviderID,
			DayOfWeek:           dow,
			IsWorkingDay:        true,
			StartMinute:         9 * 60,
			EndMinute:           18 * 60,
			BreakStartMinute:    &breakStart,
			BreakEndMinute:      &breakEnd,
			SlotDurationMinutes: 60,
			BufferMinutes:       15,
		}
	}

	catalogSvc := schedule.NewDefaultCatalog(env.sched)
	env.engine = &DefaultAvailabilityEngine{
		Bookings: env.repo,
		Catalog:  env.catalog,
		Schedule: catalogSvc,
	}
	env.svc = &DefaultLifecycleService{
		Repo:         env.repo,
		Catalog:      env.catalog,
		Availability: env.engine,
		Pricing:      &DefaultPricingCalculator{Catalog: env.catalog},
		Guard:        NewMemoryConflictGuard(env.repo, nil),
		Notifier:     env.notifier,
		Payments:     env.payments,
		Policy: Policy{
			MinLeadTime:      30 * time.Minute,
			CancelWindow:     60 * time.Minute,
			RescheduleWindow: 60 * time.Minute,
			HorizonDays:      14,
		},
		Clock: func() time.Time { return env.now },
	}
	return env
}

// at returns a clock time on the seeded Monday plus dayOffset days.
func at(dayOffset, hour, min int) time.Time {
	return testMonday.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

// capturePayments records settle calls.
type capturePayments struct {
	mu      sync.Mutex
	settled []string
}

func (p *capturePayments) Settle(_ context.Context, b *models.Booking) (*models.Invoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled = append(p.settled, b.ID)
	return &models.Invoice{InvoiceID: "inv-" + b.ID, BookingID: b.ID, Amount: b.Price.Total, Status: "paid"}, nil
}

func (p *capturePayments) settledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.settled)
}

func (n *captureNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == event {
			c++
		}
	}
	return c
}

// waitFor polls until cond holds; port calls run on background goroutines so
// their side effects need a grace period.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
