package leave

import (
	"context"
	"time"
)

// LeaveRepository defines read access to leave requests.
type LeaveRepository interface {
	// GetApprovedForDate retrieves the approved leave request covering the
	// given date for an employee, or nil when none exists.
	GetApprovedForDate(ctx context.Context, employeeID string, date time.Time) (*Request, error)
}
