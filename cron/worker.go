package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"spabook/config"
	"spabook/models"
	"spabook/services/booking"
	"spabook/services/notification"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// ReminderPayload is the asynq task body for a scheduled booking reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}

// AsynqReminderScheduler enqueues a reminder task to fire before the
// appointment start. It implements booking.ReminderScheduler.
type AsynqReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

func NewReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(redisOpts()),
		lead:   time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, b *models.Booking) error {
	fireAt := b.StartTime.Add(-s.lead)
	if fireAt.Before(time.Now()) {
		// Appointment is closer than the reminder lead; nothing to schedule.
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{BookingID: b.ID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingReminder, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(lifecycle booking.LifecycleService, notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingReminder, handleReminderTask(lifecycle, notifSvc))

	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(lifecycle booking.LifecycleService, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		b, err := lifecycle.GetBooking(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] Booking %s not found: %v", p.BookingID, err)
			return nil // cancelled reminders are not retried
		}
		if b.Status != models.BookingConfirmed {
			// Cancelled or already completed since the reminder was queued.
			return nil
		}

		log.Printf("[ReminderHandler] Firing reminder for booking %s at %s", b.ID, b.StartTime)
		return notifSvc.BookingReminder(ctx, b)
	}
}

// StartStalePendingSweeper periodically cancels PENDING bookings whose start
// time passed unconfirmed.
func StartStalePendingSweeper(lifecycle booking.LifecycleService, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := lifecycle.ExpireStalePending(ctx, time.Now())
			cancel()
			if err != nil {
				log.Printf("[StaleSweeper] Sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[StaleSweeper] Expired %d unconfirmed bookings", n)
			}
		}
	}()
}
