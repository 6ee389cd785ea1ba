package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, shift_date, scheduled_time_in, scheduled_time_out,
	actual_time_in, actual_time_out, status, secondary_status,
	tardy_minutes, undertime_minutes, overtime_minutes, total_minutes_worked,
	is_cross_site_bio, overtime_approved, lunch_used,
	lifecycle, verified_by, verified_at, warnings, leave_request_id, upload_id,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShiftDate, &rec.ScheduledTimeIn, &rec.ScheduledTimeOut,
		&rec.ActualTimeIn, &rec.ActualTimeOut, &rec.Status, &rec.SecondaryStatus,
		&rec.TardyMinutes, &rec.UndertimeMinutes, &rec.OvertimeMinutes, &rec.TotalMinutesWorked,
		&rec.IsCrossSiteBio, &rec.OvertimeApproved, &rec.LunchUsed,
		&rec.Lifecycle, &rec.VerifiedBy, &rec.VerifiedAt, &rec.Warnings, &rec.LeaveRequestID, &rec.UploadID,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository. The partial unique
// index on (employee_id, shift_date) enforces one record per shift date.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := r.db.Querier(ctx)

	query := `
		INSERT INTO attendance_records (
			employee_id, shift_date, scheduled_time_in, scheduled_time_out,
			actual_time_in, actual_time_out, status, secondary_status,
			tardy_minutes, undertime_minutes, overtime_minutes, total_minutes_worked,
			is_cross_site_bio, overtime_approved, lunch_used,
			lifecycle, verified_by, verified_at, warnings, leave_request_id, upload_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.ShiftDate, rec.ScheduledTimeIn, rec.ScheduledTimeOut,
		rec.ActualTimeIn, rec.ActualTimeOut, rec.Status, rec.SecondaryStatus,
		rec.TardyMinutes, rec.UndertimeMinutes, rec.OvertimeMinutes, rec.TotalMinutesWorked,
		rec.IsCrossSiteBio, rec.OvertimeApproved, rec.LunchUsed,
		rec.Lifecycle, rec.VerifiedBy, rec.VerifiedAt, rec.Warnings, rec.LeaveRequestID, rec.UploadID,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicateShiftDate
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := r.db.Querier(ctx)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, shiftDate time.Time) (*attendance.Record, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND shift_date::date = $2::date
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, shiftDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := r.db.Querier(ctx)

	query := `
		UPDATE attendance_records SET
			scheduled_time_in = $2, scheduled_time_out = $3,
			actual_time_in = $4, actual_time_out = $5,
			status = $6, secondary_status = $7,
			tardy_minutes = $8, undertime_minutes = $9,
			overtime_minutes = $10, total_minutes_worked = $11,
			is_cross_site_bio = $12, overtime_approved = $13, lunch_used = $14,
			lifecycle = $15, verified_by = $16, verified_at = $17,
			warnings = $18, leave_request_id = $19, upload_id = $20,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID, rec.ScheduledTimeIn, rec.ScheduledTimeOut,
		rec.ActualTimeIn, rec.ActualTimeOut,
		rec.Status, rec.SecondaryStatus,
		rec.TardyMinutes, rec.UndertimeMinutes,
		rec.OvertimeMinutes, rec.TotalMinutesWorked,
		rec.IsCrossSiteBio, rec.OvertimeApproved, rec.LunchUsed,
		rec.Lifecycle, rec.VerifiedBy, rec.VerifiedAt,
		rec.Warnings, rec.LeaveRequestID, rec.UploadID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	q := r.db.Querier(ctx)

	var conditions []string
	var args []interface{}
	argN := 0
	arg := func(v interface{}) string {
		argN++
		args = append(args, v)
		return fmt.Sprintf("$%d", argN)
	}

	if filter.EmployeeID != nil {
		conditions = append(conditions, "ar.employee_id = "+arg(*filter.EmployeeID))
	}
	if filter.Status != nil {
		conditions = append(conditions, "ar.status = "+arg(*filter.Status))
	}
	if filter.Lifecycle != nil {
		conditions = append(conditions, "ar.lifecycle = "+arg(*filter.Lifecycle))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "ar.shift_date::date >= "+arg(*filter.DateFrom)+"::date")
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "ar.shift_date::date <= "+arg(*filter.DateTo)+"::date")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records ar " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `
		SELECT
			ar.id, ar.employee_id, ar.shift_date, ar.scheduled_time_in, ar.scheduled_time_out,
			ar.actual_time_in, ar.actual_time_out, ar.status, ar.secondary_status,
			ar.tardy_minutes, ar.undertime_minutes, ar.overtime_minutes, ar.total_minutes_worked,
			ar.is_cross_site_bio, ar.overtime_approved, ar.lunch_used,
			ar.lifecycle, ar.verified_by, ar.verified_at, ar.warnings, ar.leave_request_id, ar.upload_id,
			ar.created_at, ar.updated_at,
			e.last_name || ', ' || e.first_name AS employee_name
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		` + where + `
		ORDER BY ar.shift_date DESC, e.last_name, e.first_name
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.ShiftDate, &rec.ScheduledTimeIn, &rec.ScheduledTimeOut,
			&rec.ActualTimeIn, &rec.ActualTimeOut, &rec.Status, &rec.SecondaryStatus,
			&rec.TardyMinutes, &rec.UndertimeMinutes, &rec.OvertimeMinutes, &rec.TotalMinutesWorked,
			&rec.IsCrossSiteBio, &rec.OvertimeApproved, &rec.LunchUsed,
			&rec.Lifecycle, &rec.VerifiedBy, &rec.VerifiedAt, &rec.Warnings, &rec.LeaveRequestID, &rec.UploadID,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, total, nil
}

// ListVerifiedByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListVerifiedByDate(ctx context.Context, shiftDate time.Time) ([]attendance.Record, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE lifecycle = $1 AND shift_date::date = $2::date
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, attendance.LifecycleVerified, shiftDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}
