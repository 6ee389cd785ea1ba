package point

import (
	"context"
	"time"
)

// PointRepository defines data access for disciplinary points.
type PointRepository interface {
	// Create persists a new point
	Create(ctx context.Context, p AttendancePoint) (AttendancePoint, error)

	// Exists reports whether a point already exists for the employee and
	// shift date. Point generation is idempotent through this probe.
	Exists(ctx context.Context, employeeID string, shiftDate time.Time) (bool, error)

	// ListByEmployee retrieves an employee's points, newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]AttendancePoint, error)

	// MarkExpired stamps points whose expiry has passed
	MarkExpired(ctx context.Context, asOf time.Time) (int64, error)
}
