package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `
	id, employee_id, time_in, time_out, grace_period_minutes, work_days,
	is_active, site_id, shift_type, effective_from, effective_until,
	created_at, updated_at
`

// scanSchedule reads one schedule row. work_days is stored as an
// integer[] of time.Weekday values.
func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var s schedule.Schedule
	var workDays []int32
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.TimeIn, &s.TimeOut, &s.GracePeriodMinutes, &workDays,
		&s.IsActive, &s.SiteID, &s.ShiftType, &s.EffectiveFrom, &s.EffectiveUntil,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, err
	}
	for _, d := range workDays {
		if d >= 0 && d < 7 {
			s.WorkDays[d] = true
		}
	}
	return s, nil
}

// GetActiveByEmployee implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE employee_id = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`

	s, err := scanSchedule(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get active schedule: %w", err)
	}
	return s, nil
}

// GetForDate implements schedule.ScheduleRepository. Versioned rows are
// matched on their effectivity range; the active schedule is the
// fallback when no version covers the date.
func (r *scheduleRepository) GetForDate(ctx context.Context, employeeID string, date time.Time) (schedule.Schedule, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE employee_id = $1
		  AND effective_from IS NOT NULL
		  AND effective_from <= $2
		  AND (effective_until IS NULL OR effective_until >= $2)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	s, err := scanSchedule(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetActiveByEmployee(ctx, employeeID)
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule for date: %w", err)
	}
	return s, nil
}

// ListActive implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListActive(ctx context.Context) ([]schedule.Schedule, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE is_active = TRUE
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}
