package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate retrieves the record for a specific employee on
	// a specific shift date, or nil when none exists. This is the
	// uniqueness probe used on every reconciliation pass.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, shiftDate time.Time) (*Record, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, record Record) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	// ListVerifiedByDate retrieves every verified record for a shift date.
	// Point generation runs over this set only.
	ListVerifiedByDate(ctx context.Context, shiftDate time.Time) ([]Record, error)
}
