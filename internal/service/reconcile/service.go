package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/leave"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/notification"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

// ReconcileService runs one upload batch end to end: match scans to
// employees, cluster per shift date, classify, derive statuses, overlay
// anomalies, and persist records. One upload is one job; the whole run
// is wrapped in a single transaction and any error rolls everything
// back and marks the upload failed.
type ReconcileService struct {
	tx database.TxManager
	biometric.UploadRepository
	biometric.RecordRepository
	employee.EmployeeRepository
	schedule.ScheduleRepository
	leave.LeaveRepository
	attendance.AttendanceRepository
	sink   notification.Sink
	logger *slog.Logger
}

func NewReconcileService(
	tx database.TxManager,
	uploadRepo biometric.UploadRepository,
	bioRecordRepo biometric.RecordRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	leaveRepo leave.LeaveRepository,
	attendanceRepo attendance.AttendanceRepository,
	sink notification.Sink,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		tx:                   tx,
		UploadRepository:     uploadRepo,
		RecordRepository:     bioRecordRepo,
		EmployeeRepository:   employeeRepo,
		ScheduleRepository:   scheduleRepo,
		LeaveRepository:      leaveRepo,
		AttendanceRepository: attendanceRepo,
		sink:                 sink,
		logger:               logger,
	}
}

// ProcessUpload reconciles one upload's scans. On failure the upload is
// marked failed with the captured message (outside the rolled-back
// transaction) and the error is returned to the caller.
func (s *ReconcileService) ProcessUpload(ctx context.Context, uploadID string, scans []biometric.RawScan) (biometric.ImportSummary, error) {
	up, err := s.UploadRepository.GetByID(ctx, uploadID)
	if err != nil {
		return biometric.ImportSummary{}, fmt.Errorf("failed to get upload: %w", err)
	}
	if up.Status != biometric.UploadStatusPending {
		return biometric.ImportSummary{}, biometric.ErrUploadNotPending
	}
	if len(scans) == 0 {
		return biometric.ImportSummary{}, biometric.ErrEmptyUpload
	}
	if up.RangeEnd.Before(up.RangeStart) {
		return biometric.ImportSummary{}, biometric.ErrInvalidDateRange
	}

	if err := s.UploadRepository.MarkProcessing(ctx, uploadID); err != nil {
		return biometric.ImportSummary{}, fmt.Errorf("failed to mark upload processing: %w", err)
	}

	var summary biometric.ImportSummary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var rErr error
		summary, rErr = s.reconcile(txCtx, up, scans)
		if rErr != nil {
			return rErr
		}
		return s.UploadRepository.MarkCompleted(txCtx, uploadID, summary)
	})
	if err != nil {
		s.logger.Error("upload reconciliation failed",
			slog.String("upload_id", uploadID), slog.Any("error", err))
		if mfErr := s.UploadRepository.MarkFailed(ctx, uploadID, err.Error()); mfErr != nil {
			s.logger.Error("failed to mark upload failed",
				slog.String("upload_id", uploadID), slog.Any("error", mfErr))
		}
		return summary, err
	}

	s.logger.Info("upload reconciled",
		slog.String("upload_id", uploadID),
		slog.Int("total", summary.TotalRecords),
		slog.Int("processed", summary.Processed),
		slog.Int("unmatched_names", len(summary.UnmatchedNames)))
	return summary, nil
}

func (s *ReconcileService) reconcile(ctx context.Context, up biometric.Upload, scans []biometric.RawScan) (biometric.ImportSummary, error) {
	summary := biometric.ImportSummary{
		TotalRecords:    len(scans),
		UnmatchedNames:  []string{},
		Errors:          []string{},
		DateWarnings:    []string{},
		DatesFound:      []string{},
		NonWorkDayScans: []string{},
	}

	inRange, outOfRange, filterNote := biometric.FilterByDateRange(scans, up.RangeStart, up.RangeEnd)
	if len(outOfRange) > 0 {
		summary.DateWarnings = append(summary.DateWarnings,
			fmt.Sprintf("%d scan(s) outside the expected window; %s", len(outOfRange), filterNote))
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list employees: %w", err)
	}
	// Built once per batch; the dominant cost driver for large uploads.
	idx := BuildNameIndex(employees)

	schedules, err := s.ScheduleRepository.ListActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list schedules: %w", err)
	}
	schedByEmp := make(map[string]schedule.Schedule, len(schedules))
	for _, sc := range schedules {
		schedByEmp[sc.EmployeeID] = sc
	}

	empScans, empOrder, matchNotes := s.matchScans(idx, schedByEmp, inRange, &summary)
	summary.MatchedEmployees = len(empOrder)

	datesSeen := make(map[string]struct{})
	covered := make(map[string]struct{})

	for _, empID := range empOrder {
		scansFor := empScans[empID]

		auditRows := make([]biometric.Record, 0, len(scansFor))
		for _, sc := range scansFor {
			auditRows = append(auditRows, biometric.Record{
				UploadID:   up.ID,
				EmployeeID: empID,
				RawName:    sc.Name,
				ScannedAt:  sc.Timestamp,
				SiteID:     sc.SiteID,
			})
		}
		if err := s.RecordRepository.CreateBatch(ctx, auditRows); err != nil {
			return summary, fmt.Errorf("failed to persist biometric records: %w", err)
		}

		sched, hasSched := schedByEmp[empID]
		if !hasSched {
			if err := s.reconcileWithoutSchedule(ctx, up, empID, scansFor, &summary); err != nil {
				return summary, err
			}
			continue
		}

		clusters := AssignShiftDates(sched, scansFor)
		for _, shiftDate := range sortedDates(clusters) {
			cluster := clusters[shiftDate]
			dayKey := shiftDate.Format("2006-01-02")
			datesSeen[dayKey] = struct{}{}
			covered[empID+"|"+dayKey] = struct{}{}

			if !sched.WorksOn(shiftDate.Weekday()) {
				summary.NonWorkDayScans = append(summary.NonWorkDayScans,
					fmt.Sprintf("%s: %d scan(s) on %s which is not a scheduled work day",
						cluster[0].Name, len(cluster), dayKey))
				continue
			}
			if err := s.reconcileShift(ctx, up, empID, sched, shiftDate, cluster, matchNotes[empID], &summary); err != nil {
				return summary, err
			}
		}
	}

	for d := range datesSeen {
		summary.DatesFound = append(summary.DatesFound, d)
	}
	sort.Strings(summary.DatesFound)

	if err := s.absencePass(ctx, up, schedByEmp, covered); err != nil {
		return summary, err
	}
	return summary, nil
}

// matchScans groups the in-range scans by raw name and resolves each
// name against the index, keeping iteration order deterministic.
func (s *ReconcileService) matchScans(
	idx NameIndex,
	schedByEmp map[string]schedule.Schedule,
	inRange []biometric.RawScan,
	summary *biometric.ImportSummary,
) (map[string][]biometric.RawScan, []string, map[string]string) {
	byName := make(map[string][]biometric.RawScan)
	var nameOrder []string
	for _, sc := range inRange {
		key := NormalizeName(sc.Name)
		if _, ok := byName[key]; !ok {
			nameOrder = append(nameOrder, key)
		}
		byName[key] = append(byName[key], sc)
	}

	empScans := make(map[string][]biometric.RawScan)
	var empOrder []string
	matchNotes := make(map[string]string)

	for _, name := range nameOrder {
		group := byName[name]
		earliest := group[0].Timestamp
		for _, sc := range group[1:] {
			if sc.Timestamp.Before(earliest) {
				earliest = sc.Timestamp
			}
		}

		emp, ok, note := idx.Match(name, &earliest, schedByEmp)
		if !ok {
			summary.UnmatchedNames = append(summary.UnmatchedNames, name)
			continue
		}
		if _, seen := empScans[emp.ID]; !seen {
			empOrder = append(empOrder, emp.ID)
		}
		empScans[emp.ID] = append(empScans[emp.ID], group...)
		if note != "" {
			matchNotes[emp.ID] = note
		}
	}
	return empScans, empOrder, matchNotes
}

// reconcileShift processes one (employee, shift date) cluster into an
// attendance record.
func (s *ReconcileService) reconcileShift(
	ctx context.Context,
	up biometric.Upload,
	empID string,
	sched schedule.Schedule,
	shiftDate time.Time,
	cluster []biometric.RawScan,
	matchNote string,
	summary *biometric.ImportSummary,
) error {
	schedIn, schedOut := sched.Window(shiftDate)
	cls := Classify(cluster, sched, shiftDate)

	var actIn, actOut *time.Time
	if cls.TimeIn != nil {
		t := cls.TimeIn.Timestamp
		actIn = &t
	}
	if cls.TimeOut != nil {
		t := cls.TimeOut.Timestamp
		actOut = &t
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, empID, shiftDate)
	if err != nil {
		return fmt.Errorf("failed to get attendance record: %w", err)
	}

	if existing != nil && existing.Verified() {
		// Verified records are frozen, except the time-out backfill: a
		// later upload may resolve a clock-out the first pass missed.
		if existing.ActualTimeOut == nil && actOut != nil && existing.ActualTimeIn != nil &&
			existing.ScheduledTimeIn != nil && existing.ScheduledTimeOut != nil {
			existing.ActualTimeOut = actOut
			// The stored overtime is stale (no time-out existed); redo
			// the time-out pass so an unapproved late scan still caps
			// the worked total at the scheduled out.
			if diff := minutesBetween(*existing.ScheduledTimeOut, *actOut); diff > overtimeThresholdMinutes {
				existing.OvertimeMinutes = diff
			} else {
				existing.OvertimeMinutes = 0
			}
			existing.TotalMinutesWorked = totalMinutesWorked(DeriveInput{
				ScheduledIn:      *existing.ScheduledTimeIn,
				ScheduledOut:     *existing.ScheduledTimeOut,
				ActualIn:         existing.ActualTimeIn,
				ActualOut:        actOut,
				OvertimeApproved: existing.OvertimeApproved,
				LunchUsed:        existing.LunchUsed,
			}, existing.OvertimeMinutes)
			if err := s.AttendanceRepository.Update(ctx, *existing); err != nil {
				return fmt.Errorf("failed to backfill time out: %w", err)
			}
			summary.Processed++
		}
		return nil
	}

	overtimeApproved, lunchUsed := false, false
	if existing != nil {
		overtimeApproved, lunchUsed = existing.OvertimeApproved, existing.LunchUsed
	}

	der := Derive(DeriveInput{
		ScheduledIn:        schedIn,
		ScheduledOut:       schedOut,
		ActualIn:           actIn,
		ActualOut:          actOut,
		GracePeriodMinutes: sched.GracePeriodMinutes,
		ShiftType:          sched.ShiftType,
		OvertimeApproved:   overtimeApproved,
		LunchUsed:          lunchUsed,
	})
	rep := DetectAnomalies(cluster, schedIn, schedOut, cls.TimeIn, cls.TimeOut)

	warnings := append([]string{}, cls.Warnings...)
	warnings = append(warnings, rep.Warnings...)
	if matchNote != "" {
		warnings = append(warnings, matchNote)
	}

	status := der.Status
	if rep.NeedsReview && status.Ambiguous() {
		status = attendance.StatusNeedsManualReview
	}

	var leaveID *string
	if lr, lErr := s.LeaveRepository.GetApprovedForDate(ctx, empID, shiftDate); lErr != nil {
		return fmt.Errorf("failed to check leave requests: %w", lErr)
	} else if lr != nil {
		leaveID = &lr.ID
		warnings = append(warnings, fmt.Sprintf("approved %s leave overlaps biometric scans", lr.LeaveType))
		s.notify(ctx, notification.Notification{
			EmployeeID: empID,
			ShiftDate:  shiftDate,
			Kind:       notification.KindLeaveConflict,
			Message:    fmt.Sprintf("employee scanned in on %s despite approved leave", shiftDate.Format("2006-01-02")),
		})
	}

	rec := attendance.Record{
		EmployeeID:         empID,
		ShiftDate:          shiftDate,
		ScheduledTimeIn:    &schedIn,
		ScheduledTimeOut:   &schedOut,
		ActualTimeIn:       actIn,
		ActualTimeOut:      actOut,
		Status:             status,
		SecondaryStatus:    der.SecondaryStatus,
		TardyMinutes:       der.TardyMinutes,
		UndertimeMinutes:   der.UndertimeMinutes,
		OvertimeMinutes:    der.OvertimeMinutes,
		TotalMinutesWorked: der.TotalMinutesWorked,
		IsCrossSiteBio:     isCrossSite(cluster, sched),
		OvertimeApproved:   overtimeApproved,
		LunchUsed:          lunchUsed,
		Lifecycle:          attendance.LifecycleAutoReconciled,
		Warnings:           warnings,
		LeaveRequestID:     leaveID,
		UploadID:           &up.ID,
	}
	if err := s.upsertRecord(ctx, existing, rec); err != nil {
		return err
	}
	summary.Processed++
	return nil
}

// reconcileWithoutSchedule still creates records from raw scans when the
// employee has no active schedule; they go straight to manual review.
func (s *ReconcileService) reconcileWithoutSchedule(
	ctx context.Context,
	up biometric.Upload,
	empID string,
	scans []biometric.RawScan,
	summary *biometric.ImportSummary,
) error {
	byDate := make(map[time.Time][]biometric.RawScan)
	for _, sc := range scans {
		d := dateOnly(sc.Timestamp)
		byDate[d] = append(byDate[d], sc)
	}

	for _, d := range sortedDates(byDate) {
		cluster := byDate[d]
		sort.Slice(cluster, func(i, j int) bool { return cluster[i].Timestamp.Before(cluster[j].Timestamp) })

		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, empID, d)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		if existing != nil && existing.Verified() {
			continue
		}

		first := cluster[0].Timestamp
		rec := attendance.Record{
			EmployeeID:   empID,
			ShiftDate:    d,
			ActualTimeIn: &first,
			Status:       attendance.StatusNeedsManualReview,
			Lifecycle:    attendance.LifecycleAutoReconciled,
			Warnings:     []string{"no active schedule for employee on this date"},
			UploadID:     &up.ID,
		}
		if len(cluster) > 1 {
			last := cluster[len(cluster)-1].Timestamp
			rec.ActualTimeOut = &last
			rec.TotalMinutesWorked = int(last.Sub(first).Minutes())
		}
		if err := s.upsertRecord(ctx, existing, rec); err != nil {
			return err
		}
		summary.Processed++
	}
	return nil
}

// absencePass fills in the scheduled work days inside the upload window
// that produced no scan cluster: approved leave becomes an on_leave
// record frozen at verified, everything else defaults to NCNS.
func (s *ReconcileService) absencePass(
	ctx context.Context,
	up biometric.Upload,
	schedByEmp map[string]schedule.Schedule,
	covered map[string]struct{},
) error {
	empIDs := make([]string, 0, len(schedByEmp))
	for id := range schedByEmp {
		empIDs = append(empIDs, id)
	}
	sort.Strings(empIDs)

	start := dateOnly(up.RangeStart)
	end := dateOnly(up.RangeEnd)

	for _, empID := range empIDs {
		sched := schedByEmp[empID]
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !sched.WorksOn(d.Weekday()) {
				continue
			}
			if _, ok := covered[empID+"|"+d.Format("2006-01-02")]; ok {
				continue
			}

			existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, empID, d)
			if err != nil {
				return fmt.Errorf("failed to get attendance record: %w", err)
			}
			if existing != nil && existing.Verified() {
				continue
			}

			schedIn, schedOut := sched.Window(d)
			rec := attendance.Record{
				EmployeeID:       empID,
				ShiftDate:        d,
				ScheduledTimeIn:  &schedIn,
				ScheduledTimeOut: &schedOut,
				Status:           attendance.StatusNCNS,
				Lifecycle:        attendance.LifecycleAutoReconciled,
				UploadID:         &up.ID,
			}

			lr, err := s.LeaveRepository.GetApprovedForDate(ctx, empID, d)
			if err != nil {
				return fmt.Errorf("failed to check leave requests: %w", err)
			}
			if lr != nil {
				rec.Status = attendance.StatusOnLeave
				rec.Lifecycle = attendance.LifecycleVerified
				rec.LeaveRequestID = &lr.ID
			}

			if err := s.upsertRecord(ctx, existing, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ReconcileService) upsertRecord(ctx context.Context, existing *attendance.Record, rec attendance.Record) error {
	if existing == nil {
		if _, err := s.AttendanceRepository.Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	return nil
}

// notify is fire-and-forget: sink failures are logged, never raised into
// the reconciliation transaction.
func (s *ReconcileService) notify(ctx context.Context, n notification.Notification) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Notify(ctx, n); err != nil {
		s.logger.Warn("notification sink failure",
			slog.String("kind", string(n.Kind)),
			slog.String("employee_id", n.EmployeeID),
			slog.Any("error", err))
	}
}

func isCrossSite(cluster []biometric.RawScan, sched schedule.Schedule) bool {
	if sched.SiteID == nil {
		return false
	}
	for _, sc := range cluster {
		if sc.SiteID != nil && *sc.SiteID != *sched.SiteID {
			return true
		}
	}
	return false
}

func sortedDates(m map[time.Time][]biometric.RawScan) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
