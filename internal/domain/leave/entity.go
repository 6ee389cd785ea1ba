package leave

import "time"

type RequestStatus string

const (
	RequestStatusWaitingApproval RequestStatus = "waiting_approval"
	RequestStatusApproved        RequestStatus = "approved"
	RequestStatusRejected        RequestStatus = "rejected"
	RequestStatusCancelled       RequestStatus = "cancelled"
)

// Request is a read-only view of a leave request. Approved requests
// suppress NCNS classification for the dates they cover.
type Request struct {
	ID         string
	EmployeeID string
	Status     RequestStatus
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether the request spans the given shift date,
// inclusive of both endpoints.
func (r Request) Covers(date time.Time) bool {
	return !date.Before(truncateDay(r.StartDate)) && !date.After(truncateDay(r.EndDate))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
