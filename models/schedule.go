package models

import "time"

// Times inside a day are expressed as minutes from midnight (e.g. 540 for
// 09:00), dates as "2006-01-02" strings in the provider's location.

// WeeklyTemplate is one weekday row of a provider's recurring schedule.
type WeeklyTemplate struct {
	ProviderID          string `bson:"provider_id" json:"providerId"`
	DayOfWeek           int    `bson:"day_of_week" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	IsWorkingDay        bool   `bson:"is_working_day" json:"isWorkingDay"`
	StartMinute         int    `bson:"start_minute" json:"startMinute"`
	EndMinute           int    `bson:"end_minute" json:"endMinute"`
	BreakStartMinute    *int   `bson:"break_start_minute,omitempty" json:"breakStartMinute,omitempty"`
	BreakEndMinute      *int   `bson:"break_end_minute,omitempty" json:"breakEndMinute,omitempty"`
	SlotDurationMinutes int    `bson:"slot_duration_minutes" json:"slotDurationMinutes"`
	BufferMinutes       int    `bson:"buffer_minutes" json:"bufferMinutes"`
}

// ScheduleException overrides the weekly template for a single calendar date.
// An override window replaces start/end but not slot duration or buffer.
type ScheduleException struct {
	ProviderID        string `bson:"provider_id" json:"providerId"`
	Date              string `bson:"date" json:"date"` // "2006-01-02"
	IsDayOff          bool   `bson:"is_day_off" json:"isDayOff"`
	OverrideStart     *int   `bson:"override_start,omitempty" json:"overrideStart,omitempty"`
	OverrideEnd       *int   `bson:"override_end,omitempty" json:"overrideEnd,omitempty"`
}

// WorkingWindow is the resolved bookable range for one provider and date.
type WorkingWindow struct {
	StartMinute         int  `json:"startMinute"`
	EndMinute           int  `json:"endMinute"`
	BreakStartMinute    *int `json:"breakStartMinute,omitempty"`
	BreakEndMinute      *int `json:"breakEndMinute,omitempty"`
	SlotDurationMinutes int  `json:"slotDurationMinutes"`
	BufferMinutes       int  `json:"bufferMinutes"`
}

// DateKey formats t as the canonical schedule date string.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaySlots groups candidate start times for one date.
type DaySlots struct {
	Date  string      `json:"date"`
	Slots []time.Time `json:"slots"`
}
