package attendance

import "time"

// Status is the primary attendance classification for one shift date.
type Status string

const (
	StatusOnTime                Status = "on_time"
	StatusTardy                 Status = "tardy"
	StatusHalfDayAbsence        Status = "half_day_absence"
	StatusUndertime             Status = "undertime"
	StatusUndertimeMoreThanHour Status = "undertime_more_than_hour"
	StatusNCNS                  Status = "ncns"
	StatusAdvisedAbsence        Status = "advised_absence"
	StatusFailedBioIn           Status = "failed_bio_in"
	StatusFailedBioOut          Status = "failed_bio_out"
	StatusNeedsManualReview     Status = "needs_manual_review"
	StatusOnLeave               Status = "on_leave"
)

var StatusValues = []string{
	string(StatusOnTime),
	string(StatusTardy),
	string(StatusHalfDayAbsence),
	string(StatusUndertime),
	string(StatusUndertimeMoreThanHour),
	string(StatusNCNS),
	string(StatusAdvisedAbsence),
	string(StatusFailedBioIn),
	string(StatusFailedBioOut),
	string(StatusNeedsManualReview),
	string(StatusOnLeave),
}

// Ambiguous reports whether the status reflects missing or unusable scan
// data rather than a concrete attendance outcome. Only ambiguous statuses
// may be escalated to needs_manual_review by the anomaly detector.
func (s Status) Ambiguous() bool {
	switch s {
	case StatusNCNS, StatusFailedBioIn, StatusFailedBioOut:
		return true
	}
	return false
}

// Record is one employee's reconciled attendance for one shift date.
// (EmployeeID, ShiftDate) is the natural key: at most one record per
// employee per shift date. Records are never deleted by the engine.
type Record struct {
	ID               string
	EmployeeID       string
	ShiftDate        time.Time
	ScheduledTimeIn  *time.Time
	ScheduledTimeOut *time.Time
	ActualTimeIn     *time.Time
	ActualTimeOut    *time.Time

	Status          Status
	SecondaryStatus *Status

	TardyMinutes       int
	UndertimeMinutes   int
	OvertimeMinutes    int
	TotalMinutesWorked int

	IsCrossSiteBio   bool
	OvertimeApproved bool
	LunchUsed        bool

	Lifecycle  Lifecycle
	VerifiedBy *string
	VerifiedAt *time.Time

	Warnings       []string
	LeaveRequestID *string
	UploadID       *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// Verified reports whether the record has been admin-verified and is
// frozen against automated overwrites. The narrow time-out backfill
// exception is handled by the reconciliation pass itself.
func (r Record) Verified() bool {
	return r.Lifecycle == LifecycleVerified
}
