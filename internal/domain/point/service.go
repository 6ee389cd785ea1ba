package point

import (
	"context"
	"time"
)

// PointService derives and manages disciplinary points.
type PointService interface {
	// GenerateForDate derives points from the verified records of one
	// shift date. Idempotent per (employee, shift date).
	GenerateForDate(ctx context.Context, shiftDate time.Time) ([]AttendancePoint, error)

	// ListByEmployee returns an employee's point history, newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]AttendancePoint, error)

	// ExpirePoints stamps every point whose expiry has passed
	ExpirePoints(ctx context.Context, asOf time.Time) (int64, error)
}
