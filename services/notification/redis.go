package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spabook/models"

	"github.com/go-redis/redis/v8"
)

// EventChannel is the Redis pub/sub channel delivery workers subscribe to.
// Formatting and per-channel delivery (push, SMS, email) happen downstream;
// this service only emits the event.
const EventChannel = "booking.events"

// BookingEvent is the envelope published for every booking transition.
type BookingEvent struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Booking    *models.Booking `json:"booking"`
}

// RedisNotificationService publishes booking events to Redis.
type RedisNotificationService struct {
	Client *redis.Client
}

func NewRedisNotificationService(client *redis.Client) *RedisNotificationService {
	return &RedisNotificationService{Client: client}
}

func (s *RedisNotificationService) publish(ctx context.Context, eventType string, b *models.Booking) error {
	payload, err := json.Marshal(BookingEvent{
		Type:       eventType,
		OccurredAt: time.Now(),
		Booking:    b,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := s.Client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (s *RedisNotificationService) BookingCreated(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.created", b)
}

func (s *RedisNotificationService) BookingConfirmed(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.confirmed", b)
}

func (s *RedisNotificationService) BookingCancelled(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.cancelled", b)
}

func (s *RedisNotificationService) BookingCompleted(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.completed", b)
}

func (s *RedisNotificationService) BookingRescheduled(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.rescheduled", b)
}

func (s *RedisNotificationService) BookingReminder(ctx context.Context, b *models.Booking) error {
	return s.publish(ctx, "booking.reminder", b)
}
