package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/leave"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// GetApprovedForDate implements leave.LeaveRepository.
func (r *leaveRepository) GetApprovedForDate(ctx context.Context, employeeID string, date time.Time) (*leave.Request, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT id, employee_id, status, start_date, end_date, leave_type, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date::date <= $3::date
		  AND end_date::date >= $3::date
		ORDER BY start_date
		LIMIT 1
	`

	var lr leave.Request
	err := q.QueryRow(ctx, query, employeeID, leave.RequestStatusApproved, date).Scan(
		&lr.ID, &lr.EmployeeID, &lr.Status, &lr.StartDate, &lr.EndDate,
		&lr.LeaveType, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved leave: %w", err)
	}
	return &lr, nil
}
