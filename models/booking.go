package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Active reports whether the status still occupies the provider's calendar.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking is the appointment record. It is owned by the booking service and
// mutated only through its commands; terminal bookings are retained for audit,
// never deleted.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	ProviderID         string        `bson:"provider_id" json:"providerId"`
	ClientID           string        `bson:"client_id" json:"clientId"`
	ServiceID          string        `bson:"service_id" json:"serviceId"`
	Status             BookingStatus `bson:"status" json:"status"`
	StartTime          time.Time     `bson:"start_time" json:"startTime"`
	DurationMinutes    int           `bson:"duration_minutes" json:"durationMinutes"`
	BufferMinutes      int           `bson:"buffer_minutes" json:"bufferMinutes"` // template buffer captured at booking time
	Price              PriceQuote    `bson:"price" json:"price"`
	Notes              string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time     `bson:"created_at" json:"createdAt"`
	ConfirmedAt        *time.Time    `bson:"confirmed_at,omitempty" json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy        string        `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CancellationReason string        `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CompletedAt        *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	RescheduledAt      *time.Time    `bson:"rescheduled_at,omitempty" json:"rescheduledAt,omitempty"`
	RescheduleCount    int           `bson:"reschedule_count" json:"rescheduleCount"`
}

// EndTime is the exclusive end of the booked interval.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// BufferedStart is the interval start widened by the provider buffer.
func (b *Booking) BufferedStart() time.Time {
	return b.StartTime.Add(-time.Duration(b.BufferMinutes) * time.Minute)
}

// BufferedEnd is the exclusive interval end widened by the provider buffer.
func (b *Booking) BufferedEnd() time.Time {
	return b.EndTime().Add(time.Duration(b.BufferMinutes) * time.Minute)
}

// Actor identifies who is performing a booking command. There is no ambient
// session lookup in the core: every command receives the actor explicitly.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"` // "client", "provider" or "admin"
}

const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
	RoleSystem   = "system" // background sweeps (stale-pending expiry)
)
