package attendance

import (
	"fmt"
	"time"
)

// Filter narrows attendance listings.
type Filter struct {
	EmployeeID *string
	Status     *Status
	Lifecycle  *Lifecycle
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

// VerifyRequest moves a record to the verified lifecycle state. Status
// may be overridden at verification time, e.g. reclassifying an NCNS as
// an advised absence after the employee's call is confirmed.
type VerifyRequest struct {
	ID         string
	VerifiedBy string
	Status     *Status
}

func (r VerifyRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if r.VerifiedBy == "" {
		return fmt.Errorf("verified_by is required")
	}
	if r.Status != nil && !validStatus(*r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateRequest is an admin correction of a non-verified record.
type UpdateRequest struct {
	ID               string
	ActualTimeIn     *time.Time
	ActualTimeOut    *time.Time
	Status           *Status
	SecondaryStatus  *Status
	OvertimeApproved *bool
	LunchUsed        *bool
}

func (r UpdateRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if r.Status != nil && !validStatus(*r.Status) {
		return ErrInvalidStatus
	}
	if r.SecondaryStatus != nil && !validStatus(*r.SecondaryStatus) {
		return ErrInvalidStatus
	}
	return nil
}

func validStatus(s Status) bool {
	for _, v := range StatusValues {
		if v == string(s) {
			return true
		}
	}
	return false
}

// Response is the API representation of a record.
type Response struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       *string  `json:"employee_name,omitempty"`
	ShiftDate          string   `json:"shift_date"`
	ScheduledTimeIn    *string  `json:"scheduled_time_in"`
	ScheduledTimeOut   *string  `json:"scheduled_time_out"`
	ActualTimeIn       *string  `json:"actual_time_in"`
	ActualTimeOut      *string  `json:"actual_time_out"`
	Status             string   `json:"status"`
	SecondaryStatus    *string  `json:"secondary_status,omitempty"`
	TardyMinutes       int      `json:"tardy_minutes"`
	UndertimeMinutes   int      `json:"undertime_minutes"`
	OvertimeMinutes    int      `json:"overtime_minutes"`
	TotalMinutesWorked int      `json:"total_minutes_worked"`
	IsCrossSiteBio     bool     `json:"is_cross_site_bio"`
	Lifecycle          string   `json:"lifecycle"`
	Warnings           []string `json:"warnings,omitempty"`
	LeaveRequestID     *string  `json:"leave_request_id,omitempty"`
}

// ListResponse wraps a paginated listing.
type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
	Records    []Response `json:"records"`
}
