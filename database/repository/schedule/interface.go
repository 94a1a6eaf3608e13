package scheduleRepo

import (
	"context"
)

// ScheduleRepository stores the three inputs of a master's availability:
// days off, weekday templates and per-date overrides.
type ScheduleRepository interface {
	IsDayOff(ctx context.Context, masterID, date string) (bool, error)
	// SetDayOff flags or unflags a date. Both directions are idempotent.
	SetDayOff(ctx context.Context, masterID, date string, off bool) error
	// ListDaysOff returns flagged dates in [from, to], ascending.
	ListDaysOff(ctx context.Context, masterID, from, to string) ([]string, error)

	// GetWeekdaySlots returns nil when no template exists for the weekday.
	GetWeekdaySlots(ctx context.Context, masterID, weekday string) ([]string, error)
	// SetWeekdaySlots replaces the template; an empty list removes it.
	SetWeekdaySlots(ctx context.Context, masterID, weekday string, slots []string) error
	// ListWeekdayTemplates returns every template of the master keyed by weekday.
	ListWeekdayTemplates(ctx context.Context, masterID string) (map[string][]string, error)

	// GetDateOverride returns nil when the date has no override. A non-nil
	// pointer to an empty slice is a real "no slots" override.
	GetDateOverride(ctx context.Context, masterID, date string) (*[]string, error)
	SetDateOverride(ctx context.Context, masterID, date string, slots []string) error
	DeleteDateOverride(ctx context.Context, masterID, date string) error
}
