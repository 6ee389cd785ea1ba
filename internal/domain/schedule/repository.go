package schedule

import (
	"context"
	"time"
)

// ScheduleRepository defines read access to work schedules. Schedules are
// owned by the scheduling module; the engine only consumes them.
type ScheduleRepository interface {
	// GetActiveByEmployee retrieves the single authoritative active
	// schedule for an employee.
	GetActiveByEmployee(ctx context.Context, employeeID string) (Schedule, error)

	// GetForDate retrieves the schedule version effective on a historical
	// date, falling back to the active schedule when no versioned row
	// covers it.
	GetForDate(ctx context.Context, employeeID string, date time.Time) (Schedule, error)

	// ListActive retrieves all active schedules, keyed per employee by the
	// caller. Called once per upload batch.
	ListActive(ctx context.Context) ([]Schedule, error)
}
