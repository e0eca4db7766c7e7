package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "spabook/database/repository/booking"
	"spabook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimToken represents a transient reservation of a provider interval. A
// token is held only for the span of one booking command: once the booking
// row is committed it becomes visible to every later overlap check and the
// token is released.
type ClaimToken struct {
	ID            string
	ProviderID    string
	Start         time.Time
	End           time.Time
	BufferMinutes int
}

func (t *ClaimToken) bufferedStart() time.Time {
	return t.Start.Add(-time.Duration(t.BufferMinutes) * time.Minute)
}

func (t *ClaimToken) bufferedEnd() time.Time {
	return t.End.Add(time.Duration(t.BufferMinutes) * time.Minute)
}

// ConflictGuard is the reservation primitive that prevents double-booking
// races: of two concurrent overlapping claims for one provider, exactly one
// succeeds. Claim never waits for a slot to free up; it fails fast.
type ConflictGuard interface {
	Claim(ctx context.Context, providerID string, start time.Time, durationMinutes, bufferMinutes int, excludeBookingID string) (*ClaimToken, error)
	Release(token *ClaimToken)
}

// MemoryConflictGuard serializes claim/release per provider through a mutex
// over an in-flight claim registry, checked together with the committed
// bookings in storage. This is the single-owner strategy: the overlap check
// and the claim commit happen under one lock, so no command can observe a
// partially applied check from another.
type MemoryConflictGuard struct {
	Repo   bookingRepo.Repository
	Logger *zap.Logger

	mu        sync.Mutex
	providers map[string]*providerClaims
}

type providerClaims struct {
	mu     sync.Mutex
	claims map[string]*ClaimToken
}

func NewMemoryConflictGuard(repo bookingRepo.Repository, logger *zap.Logger) *MemoryConflictGuard {
	return &MemoryConflictGuard{
		Repo:      repo,
		Logger:    logger,
		providers: make(map[string]*providerClaims),
	}
}

func (g *MemoryConflictGuard) forProvider(providerID string) *providerClaims {
	g.mu.Lock()
	defer g.mu.Unlock()
	pc, ok := g.providers[providerID]
	if !ok {
		pc = &providerClaims{claims: make(map[string]*ClaimToken)}
		g.providers[providerID] = pc
	}
	return pc
}

const (
	claimStorageRetries = 3
	claimRetryBackoff   = 50 * time.Millisecond
)

func (g *MemoryConflictGuard) Claim(ctx context.Context, providerID string, start time.Time, durationMinutes, bufferMinutes int, excludeBookingID string) (*ClaimToken, error) {
	if durationMinutes <= 0 {
		return nil, NewInvalidDurationError(durationMinutes)
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	pc := g.forProvider(providerID)
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// In-flight claims first: a concurrent command that already claimed an
	// overlapping interval wins even though its booking row is not yet
	// committed.
	for _, c := range pc.claims {
		if start.Before(c.bufferedEnd()) && c.bufferedStart().Before(end) {
			return nil, NewSlotAlreadyTakenError("interval is claimed by a concurrent booking")
		}
	}

	// Committed bookings, with bounded retries on transient storage errors.
	// This is the only place the core retries storage: a claim that cannot be
	// determined is a ConcurrencyConflict, distinct from "determined taken".
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	var existing []models.Booking
	var err error
	for attempt := 1; attempt <= claimStorageRetries; attempt++ {
		existing, err = g.Repo.ListActiveInRange(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
		if err == nil {
			break
		}
		if attempt < claimStorageRetries {
			logger := g.Logger
			if logger == nil {
				logger = zap.L()
			}
			logger.Warn("claim overlap check failed, retrying",
				zap.String("providerId", providerID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			time.Sleep(time.Duration(attempt) * claimRetryBackoff)
		}
	}
	if err != nil {
		return nil, NewConcurrencyConflictError("could not determine slot availability: " + err.Error())
	}

	for i := range existing {
		b := &existing[i]
		if b.ID == excludeBookingID {
			continue
		}
		if start.Before(b.BufferedEnd()) && b.BufferedStart().Before(end) {
			return nil, NewSlotAlreadyTakenError("interval overlaps an existing booking")
		}
	}

	token := &ClaimToken{
		ID:            uuid.New().String(),
		ProviderID:    providerID,
		Start:         start,
		End:           end,
		BufferMinutes: bufferMinutes,
	}
	pc.claims[token.ID] = token
	return token, nil
}

func (g *MemoryConflictGuard) Release(token *ClaimToken) {
	if token == nil {
		return
	}
	pc := g.forProvider(token.ProviderID)
	pc.mu.Lock()
	defer pc.mu.Unlock()
	delete(pc.claims, token.ID)
}
