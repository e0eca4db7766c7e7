package booking

import (
	"time"

	"spabook/config"
)

// Policy carries the configured lead-time and eligibility windows. The exact
// values are deployment configuration, not code.
type Policy struct {
	MinLeadTime      time.Duration
	CancelWindow     time.Duration
	RescheduleWindow time.Duration
	HorizonDays      int
}

// PolicyFromConfig reads the policy knobs from the loaded configuration.
func PolicyFromConfig() Policy {
	return Policy{
		MinLeadTime:      time.Duration(config.AppConfig.BookingMinLeadMinutes) * time.Minute,
		CancelWindow:     time.Duration(config.AppConfig.BookingCancelWindowMinutes) * time.Minute,
		RescheduleWindow: time.Duration(config.AppConfig.BookingRescheduleWindowMinutes) * time.Minute,
		HorizonDays:      config.AppConfig.BookingHorizonDays,
	}
}

// CheckLeadTime rejects start times in the past or inside the minimum lead
// window.
func (p Policy) CheckLeadTime(now, start time.Time) error {
	if !start.After(now) {
		return NewValidationError("start time %s is not in the future", start.Format(time.RFC3339))
	}
	if start.Sub(now) < p.MinLeadTime {
		return NewValidationError("start time must be at least %s ahead", p.MinLeadTime)
	}
	return nil
}

// CheckCancellable enforces the cancellation window against the booking's
// current start time.
func (p Policy) CheckCancellable(now, start time.Time) error {
	if start.Sub(now) <= p.CancelWindow {
		return NewPolicyViolationError("cancellation is only allowed more than " + p.CancelWindow.String() + " before the start time")
	}
	return nil
}

// CheckReschedulable enforces the reschedule window against the booking's
// current start time.
func (p Policy) CheckReschedulable(now, start time.Time) error {
	if start.Sub(now) <= p.RescheduleWindow {
		return NewPolicyViolationError("rescheduling is only allowed more than " + p.RescheduleWindow.String() + " before the start time")
	}
	return nil
}
