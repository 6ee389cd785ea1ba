package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	logger *slog.Logger
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, logger *slog.Logger) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		logger:               logger,
	}
}

// List retrieves attendance records with filters and pagination.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    make([]attendance.Response, 0, len(records)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toResponse(rec))
	}
	return resp, nil
}

// Get retrieves a single record by ID.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.Response, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.Response{}, err
	}
	if emp, empErr := s.EmployeeRepository.GetByID(ctx, rec.EmployeeID); empErr == nil {
		name := emp.LastName + ", " + emp.FirstName
		rec.EmployeeName = &name
	}
	return toResponse(rec), nil
}

// Verify moves a record to the verified lifecycle state, optionally
// overriding the status, e.g. reclassifying an NCNS as an advised
// absence once the employee's call is confirmed.
func (s *AttendanceServiceImpl) Verify(ctx context.Context, req attendance.VerifyRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Response{}, err
	}
	if !rec.Lifecycle.CanTransition(attendance.LifecycleVerified) {
		return attendance.Response{}, attendance.ErrInvalidTransition
	}

	if req.Status != nil {
		rec.Status = *req.Status
	}
	now := time.Now()
	rec.Lifecycle = attendance.LifecycleVerified
	rec.VerifiedBy = &req.VerifiedBy
	rec.VerifiedAt = &now

	if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.Response{}, fmt.Errorf("failed to verify record: %w", err)
	}

	s.logger.Info("attendance record verified",
		slog.String("record_id", rec.ID),
		slog.String("verified_by", req.VerifiedBy),
		slog.String("status", string(rec.Status)))
	return toResponse(rec), nil
}

// SendToReview moves a record into pending_review, including reopening a
// verified record for correction.
func (s *AttendanceServiceImpl) SendToReview(ctx context.Context, id string) (attendance.Response, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.Response{}, err
	}
	if !rec.Lifecycle.CanTransition(attendance.LifecyclePendingReview) {
		return attendance.Response{}, attendance.ErrInvalidTransition
	}

	rec.Lifecycle = attendance.LifecyclePendingReview
	rec.VerifiedBy = nil
	rec.VerifiedAt = nil
	if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.Response{}, fmt.Errorf("failed to send record to review: %w", err)
	}
	return toResponse(rec), nil
}

// Update applies an admin correction to a non-verified record and
// recomputes the worked-minutes total when either actual time changed.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Response{}, err
	}
	if rec.Verified() {
		return attendance.Response{}, attendance.ErrRecordVerified
	}

	timesChanged := false
	if req.ActualTimeIn != nil {
		rec.ActualTimeIn = req.ActualTimeIn
		timesChanged = true
	}
	if req.ActualTimeOut != nil {
		rec.ActualTimeOut = req.ActualTimeOut
		timesChanged = true
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.SecondaryStatus != nil {
		rec.SecondaryStatus = req.SecondaryStatus
	}
	if req.OvertimeApproved != nil {
		rec.OvertimeApproved = *req.OvertimeApproved
		timesChanged = true
	}
	if req.LunchUsed != nil {
		rec.LunchUsed = *req.LunchUsed
		timesChanged = true
	}

	if timesChanged {
		recomputeTotals(&rec)
	}

	if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.Response{}, fmt.Errorf("failed to update record: %w", err)
	}
	return toResponse(rec), nil
}

// recomputeTotals mirrors the reconciliation minute math for admin
// corrections: early arrivals clamp to the scheduled in, unapproved
// overtime caps at the scheduled out, and the lunch hour comes off any
// span past five hours.
func recomputeTotals(rec *attendance.Record) {
	if rec.ActualTimeIn == nil || rec.ActualTimeOut == nil ||
		rec.ScheduledTimeIn == nil || rec.ScheduledTimeOut == nil {
		rec.TotalMinutesWorked = 0
		return
	}

	effIn := *rec.ActualTimeIn
	if effIn.Before(*rec.ScheduledTimeIn) {
		effIn = *rec.ScheduledTimeIn
	}
	effOut := *rec.ActualTimeOut
	if effOut.After(*rec.ScheduledTimeOut) && !rec.OvertimeApproved {
		effOut = *rec.ScheduledTimeOut
	}

	raw := effOut.Sub(effIn)
	if raw > 5*time.Hour && !rec.LunchUsed {
		raw -= time.Hour
	}
	if raw < 0 {
		raw = 0
	}
	rec.TotalMinutesWorked = int(raw.Minutes())
}

func toResponse(rec attendance.Record) attendance.Response {
	resp := attendance.Response{
		ID:                 rec.ID,
		EmployeeID:         rec.EmployeeID,
		EmployeeName:       rec.EmployeeName,
		ShiftDate:          rec.ShiftDate.Format("2006-01-02"),
		Status:             string(rec.Status),
		TardyMinutes:       rec.TardyMinutes,
		UndertimeMinutes:   rec.UndertimeMinutes,
		OvertimeMinutes:    rec.OvertimeMinutes,
		TotalMinutesWorked: rec.TotalMinutesWorked,
		IsCrossSiteBio:     rec.IsCrossSiteBio,
		Lifecycle:          string(rec.Lifecycle),
		Warnings:           rec.Warnings,
		LeaveRequestID:     rec.LeaveRequestID,
	}
	if rec.SecondaryStatus != nil {
		s := string(*rec.SecondaryStatus)
		resp.SecondaryStatus = &s
	}
	resp.ScheduledTimeIn = fmtTime(rec.ScheduledTimeIn)
	resp.ScheduledTimeOut = fmtTime(rec.ScheduledTimeOut)
	resp.ActualTimeIn = fmtTime(rec.ActualTimeIn)
	resp.ActualTimeOut = fmtTime(rec.ActualTimeOut)
	return resp
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
