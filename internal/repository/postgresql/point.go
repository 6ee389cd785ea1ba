package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/point"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

type pointRepository struct {
	db *database.DB
}

func NewPointRepository(db *database.DB) point.PointRepository {
	return &pointRepository{db: db}
}

// Create implements point.PointRepository.
func (r *pointRepository) Create(ctx context.Context, p point.AttendancePoint) (point.AttendancePoint, error) {
	q := r.db.Querier(ctx)

	query := `
		INSERT INTO attendance_points (
			employee_id, shift_date, attendance_id, type, value,
			description, expires_at, gbro_eligible
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		p.EmployeeID, p.ShiftDate, p.AttendanceID, p.Type, p.Value,
		p.Description, p.ExpiresAt, p.GBROEligible,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return point.AttendancePoint{}, point.ErrDuplicatePoint
		}
		return point.AttendancePoint{}, fmt.Errorf("failed to create point: %w", err)
	}
	return p, nil
}

// Exists implements point.PointRepository.
func (r *pointRepository) Exists(ctx context.Context, employeeID string, shiftDate time.Time) (bool, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_points
			WHERE employee_id = $1 AND shift_date::date = $2::date
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, shiftDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to probe points: %w", err)
	}
	return exists, nil
}

// ListByEmployee implements point.PointRepository.
func (r *pointRepository) ListByEmployee(ctx context.Context, employeeID string) ([]point.AttendancePoint, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT id, employee_id, shift_date, attendance_id, type, value,
			   description, expires_at, gbro_eligible, expired_at, created_at
		FROM attendance_points
		WHERE employee_id = $1
		ORDER BY shift_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	defer rows.Close()

	var points []point.AttendancePoint
	for rows.Next() {
		var p point.AttendancePoint
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.ShiftDate, &p.AttendanceID, &p.Type, &p.Value,
			&p.Description, &p.ExpiresAt, &p.GBROEligible, &p.ExpiredAt, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points: %w", err)
	}
	return points, nil
}

// MarkExpired implements point.PointRepository.
func (r *pointRepository) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	q := r.db.Querier(ctx)

	query := `
		UPDATE attendance_points
		SET expired_at = $1
		WHERE expired_at IS NULL AND expires_at < $1
	`

	tag, err := q.Exec(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark points expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
