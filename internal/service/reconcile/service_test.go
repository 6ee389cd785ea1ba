package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/leave"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/notification"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

// ===== IN-MEMORY FAKES =====

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUploadRepo struct {
	uploads map[string]*biometric.Upload
}

func newFakeUploadRepo(ups ...biometric.Upload) *fakeUploadRepo {
	r := &fakeUploadRepo{uploads: make(map[string]*biometric.Upload)}
	for i := range ups {
		up := ups[i]
		r.uploads[up.ID] = &up
	}
	return r
}

func (r *fakeUploadRepo) Create(ctx context.Context, up biometric.Upload) (biometric.Upload, error) {
	r.uploads[up.ID] = &up
	return up, nil
}

func (r *fakeUploadRepo) GetByID(ctx context.Context, id string) (biometric.Upload, error) {
	up, ok := r.uploads[id]
	if !ok {
		return biometric.Upload{}, biometric.ErrUploadNotFound
	}
	return *up, nil
}

func (r *fakeUploadRepo) MarkProcessing(ctx context.Context, id string) error {
	r.uploads[id].Status = biometric.UploadStatusProcessing
	return nil
}

func (r *fakeUploadRepo) MarkCompleted(ctx context.Context, id string, summary biometric.ImportSummary) error {
	r.uploads[id].Status = biometric.UploadStatusCompleted
	r.uploads[id].Summary = summary
	return nil
}

func (r *fakeUploadRepo) MarkFailed(ctx context.Context, id string, message string) error {
	r.uploads[id].Status = biometric.UploadStatusFailed
	r.uploads[id].Error = &message
	return nil
}

type fakeBioRecordRepo struct {
	rows []biometric.Record
}

func (r *fakeBioRecordRepo) CreateBatch(ctx context.Context, records []biometric.Record) error {
	r.rows = append(r.rows, records...)
	return nil
}

func (r *fakeBioRecordRepo) ListByUpload(ctx context.Context, uploadID string) ([]biometric.Record, error) {
	var out []biometric.Record
	for _, row := range r.rows {
		if row.UploadID == uploadID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.employees, nil
}

type fakeScheduleRepo struct {
	schedules []schedule.Schedule
}

func (r *fakeScheduleRepo) GetActiveByEmployee(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	for _, s := range r.schedules {
		if s.EmployeeID == employeeID {
			return s, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) GetForDate(ctx context.Context, employeeID string, date time.Time) (schedule.Schedule, error) {
	return r.GetActiveByEmployee(ctx, employeeID)
}

func (r *fakeScheduleRepo) ListActive(ctx context.Context) ([]schedule.Schedule, error) {
	return r.schedules, nil
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (r *fakeLeaveRepo) GetApprovedForDate(ctx context.Context, employeeID string, date time.Time) (*leave.Request, error) {
	for i := range r.requests {
		lr := r.requests[i]
		if lr.EmployeeID == employeeID && lr.Status == leave.RequestStatusApproved && lr.Covers(date) {
			return &lr, nil
		}
	}
	return nil, nil
}

type fakeAttendanceRepo struct {
	records   map[string]attendance.Record
	createErr error
	seq       int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func recKey(employeeID string, shiftDate time.Time) string {
	return employeeID + "|" + shiftDate.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if r.createErr != nil {
		return attendance.Record{}, r.createErr
	}
	r.seq++
	rec.ID = recKey(rec.EmployeeID, rec.ShiftDate)
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, shiftDate time.Time) (*attendance.Record, error) {
	rec, ok := r.records[recKey(employeeID, shiftDate)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, rec attendance.Record) error {
	if _, ok := r.records[rec.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAttendanceRepo) ListVerifiedByDate(ctx context.Context, shiftDate time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.Lifecycle == attendance.LifecycleVerified && rec.ShiftDate.Equal(shiftDate) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSink struct {
	sent []notification.Notification
	err  error
}

func (s *fakeSink) Notify(ctx context.Context, n notification.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

// ===== HARNESS =====

type harness struct {
	svc         *ReconcileService
	uploads     *fakeUploadRepo
	bioRecords  *fakeBioRecordRepo
	attendances *fakeAttendanceRepo
	leaves      *fakeLeaveRepo
	sink        *fakeSink
}

func newHarness(employees []employee.Employee, schedules []schedule.Schedule, uploads ...biometric.Upload) *harness {
	h := &harness{
		uploads:     newFakeUploadRepo(uploads...),
		bioRecords:  &fakeBioRecordRepo{},
		attendances: newFakeAttendanceRepo(),
		leaves:      &fakeLeaveRepo{},
		sink:        &fakeSink{},
	}
	h.svc = NewReconcileService(
		fakeTx{},
		h.uploads,
		h.bioRecords,
		&fakeEmployeeRepo{employees: employees},
		&fakeScheduleRepo{schedules: schedules},
		h.leaves,
		h.attendances,
		h.sink,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return h
}

func pendingUpload(id string, start, end time.Time) biometric.Upload {
	return biometric.Upload{
		ID:         id,
		FileName:   "export.xlsx",
		Status:     biometric.UploadStatusPending,
		RangeStart: start,
		RangeEnd:   end,
	}
}

func mariaRosel() employee.Employee {
	e := emp("emp-day", "Rosel", "Maria")
	return e
}

func mariaSchedule() schedule.Schedule {
	s := dayShift()
	s.EmployeeID = "emp-day"
	return s
}

// ===== TESTS =====

func TestProcessUpload_DayShift_Success(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	scans := scansAt(at(2, 7, 58), at(2, 17, 5))

	summary, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.MatchedEmployees)
	assert.Empty(t, summary.UnmatchedNames)
	assert.Equal(t, []string{"2026-03-02"}, summary.DatesFound)

	rec, err := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusOnTime, rec.Status)
	assert.Equal(t, attendance.LifecycleAutoReconciled, rec.Lifecycle)
	require.NotNil(t, rec.ActualTimeIn)
	require.NotNil(t, rec.ActualTimeOut)
	assert.Equal(t, at(2, 7, 58), *rec.ActualTimeIn)

	up, _ := h.uploads.GetByID(context.Background(), "up-1")
	assert.Equal(t, biometric.UploadStatusCompleted, up.Status)
	assert.Len(t, h.bioRecords.rows, 2)
}

func TestProcessUpload_UnmatchedName_ProducesNCNS(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	scans := []biometric.RawScan{{Name: "complete stranger", Timestamp: at(2, 8, 0)}}

	summary, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)

	require.NoError(t, err)
	assert.Equal(t, []string{"complete stranger"}, summary.UnmatchedNames)
	assert.Zero(t, summary.MatchedEmployees)

	// Maria produced no scans inside the window, so the absence pass
	// records a no-call-no-show for her scheduled Monday.
	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusNCNS, rec.Status)
	assert.Nil(t, rec.ActualTimeIn)
}

func TestProcessUpload_ApprovedLeave_SuppressesNCNS(t *testing.T) {
	t.Parallel()
	onLeave := emp("emp-leave", "Santos", "Pedro")
	leaveSched := dayShift()
	leaveSched.EmployeeID = "emp-leave"

	h := newHarness(
		[]employee.Employee{mariaRosel(), onLeave},
		[]schedule.Schedule{mariaSchedule(), leaveSched},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	h.leaves.requests = []leave.Request{{
		ID:         "lr-1",
		EmployeeID: "emp-leave",
		Status:     leave.RequestStatusApproved,
		StartDate:  at(2, 0, 0),
		EndDate:    at(3, 0, 0),
		LeaveType:  "vacation",
	}}
	scans := scansAt(at(2, 7, 58), at(2, 17, 5))

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-leave", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusOnLeave, rec.Status)
	assert.Equal(t, attendance.LifecycleVerified, rec.Lifecycle)
	require.NotNil(t, rec.LeaveRequestID)
	assert.Equal(t, "lr-1", *rec.LeaveRequestID)
}

func TestProcessUpload_LeaveConflict_WarnsAndNotifies(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	h.leaves.requests = []leave.Request{{
		ID:         "lr-1",
		EmployeeID: "emp-day",
		Status:     leave.RequestStatusApproved,
		StartDate:  at(2, 0, 0),
		EndDate:    at(2, 0, 0),
		LeaveType:  "sick",
	}}
	scans := scansAt(at(2, 7, 58), at(2, 17, 5))

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.NotEmpty(t, rec.Warnings)
	require.Len(t, h.sink.sent, 1)
	assert.Equal(t, notification.KindLeaveConflict, h.sink.sent[0].Kind)
	assert.Equal(t, "emp-day", h.sink.sent[0].EmployeeID)
}

func TestProcessUpload_SinkFailure_DoesNotFailRun(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	h.sink.err = errors.New("smtp down")
	h.leaves.requests = []leave.Request{{
		ID: "lr-1", EmployeeID: "emp-day",
		Status:    leave.RequestStatusApproved,
		StartDate: at(2, 0, 0), EndDate: at(2, 0, 0),
	}}

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 7, 58), at(2, 17, 5)))

	require.NoError(t, err)
	up, _ := h.uploads.GetByID(context.Background(), "up-1")
	assert.Equal(t, biometric.UploadStatusCompleted, up.Status)
}

func TestProcessUpload_VerifiedRecord_Untouched(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	in, out := at(2, 8, 0), at(2, 17, 0)
	seeded, err := h.attendances.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-day", ShiftDate: at(2, 0, 0),
		ScheduledTimeIn: &in, ScheduledTimeOut: &out,
		ActualTimeIn: &in, ActualTimeOut: &out,
		Status:    attendance.StatusOnTime,
		Lifecycle: attendance.LifecycleVerified,
	})
	require.NoError(t, err)

	// A re-upload with wildly different scans must not disturb the
	// verified record.
	_, err = h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 11, 0), at(2, 11, 5)))
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.Equal(t, seeded.Status, rec.Status)
	assert.Equal(t, at(2, 8, 0), *rec.ActualTimeIn)
	assert.Equal(t, at(2, 17, 0), *rec.ActualTimeOut)
}

func TestProcessUpload_VerifiedRecord_TimeOutBackfill(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	in, schedOut := at(2, 8, 0), at(2, 17, 0)
	_, err := h.attendances.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-day", ShiftDate: at(2, 0, 0),
		ScheduledTimeIn: &in, ScheduledTimeOut: &schedOut,
		ActualTimeIn: &in,
		Status:       attendance.StatusFailedBioOut,
		Lifecycle:    attendance.LifecycleVerified,
	})
	require.NoError(t, err)

	_, err = h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 8, 0), at(2, 17, 3)))
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	// Status stays as verified, only the missing out and the worked
	// minutes change.
	assert.Equal(t, attendance.StatusFailedBioOut, rec.Status)
	require.NotNil(t, rec.ActualTimeOut)
	assert.Equal(t, at(2, 17, 3), *rec.ActualTimeOut)
	assert.Equal(t, 483, rec.TotalMinutesWorked)
}

func TestProcessUpload_VerifiedRecord_BackfillCapsUnapprovedOvertime(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	in, schedOut := at(2, 8, 0), at(2, 17, 0)
	_, err := h.attendances.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-day", ShiftDate: at(2, 0, 0),
		ScheduledTimeIn: &in, ScheduledTimeOut: &schedOut,
		ActualTimeIn: &in,
		Status:       attendance.StatusFailedBioOut,
		Lifecycle:    attendance.LifecycleVerified,
	})
	require.NoError(t, err)

	_, err = h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 8, 0), at(2, 18, 30)))
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	require.NotNil(t, rec.ActualTimeOut)
	assert.Equal(t, at(2, 18, 30), *rec.ActualTimeOut)
	// The late out records 90 overtime minutes, but without approval the
	// worked total caps at the scheduled out less the lunch hour.
	assert.Equal(t, 90, rec.OvertimeMinutes)
	assert.Equal(t, 480, rec.TotalMinutesWorked)
}

func TestProcessUpload_Rerun_UpdatesInsteadOfDuplicating(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
		pendingUpload("up-2", at(2, 0, 0), at(2, 0, 0)),
	)
	scans := scansAt(at(2, 7, 58), at(2, 17, 5))

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)
	require.NoError(t, err)
	_, err = h.svc.ProcessUpload(context.Background(), "up-2", scans)
	require.NoError(t, err)

	assert.Len(t, h.attendances.records, 1)
	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	require.NotNil(t, rec.UploadID)
	assert.Equal(t, "up-2", *rec.UploadID)
}

func TestProcessUpload_NoSchedule_GoesToManualReview(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		nil, // no schedules at all
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 7, 58), at(2, 17, 5)))
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusNeedsManualReview, rec.Status)
	assert.NotEmpty(t, rec.Warnings)
	assert.Equal(t, 547, rec.TotalMinutesWorked)
}

func TestProcessUpload_NonWorkDay_Skipped(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(1, 0, 0), at(2, 0, 0)),
	)
	// March 1st 2026 is a Sunday.
	scans := append(scansAt(at(1, 9, 0)), scansAt(at(2, 7, 58), at(2, 17, 5))...)

	summary, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)

	require.NoError(t, err)
	assert.Len(t, summary.NonWorkDayScans, 1)
	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(1, 0, 0))
	assert.Nil(t, rec)
}

func TestProcessUpload_CrossSiteScan_Flagged(t *testing.T) {
	t.Parallel()
	siteA, siteB := "site-a", "site-b"
	sched := mariaSchedule()
	sched.SiteID = &siteA

	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{sched},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	scans := []biometric.RawScan{
		{Name: "rosel", Timestamp: at(2, 7, 58), SiteID: &siteB},
		{Name: "rosel", Timestamp: at(2, 17, 5), SiteID: &siteA},
	}

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scans)
	require.NoError(t, err)

	rec, _ := h.attendances.GetByEmployeeAndDate(context.Background(), "emp-day", at(2, 0, 0))
	require.NotNil(t, rec)
	assert.True(t, rec.IsCrossSiteBio)
}

func TestProcessUpload_NotPending(t *testing.T) {
	t.Parallel()
	up := pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0))
	up.Status = biometric.UploadStatusCompleted
	h := newHarness([]employee.Employee{mariaRosel()}, []schedule.Schedule{mariaSchedule()}, up)

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 8, 0)))

	assert.ErrorIs(t, err, biometric.ErrUploadNotPending)
}

func TestProcessUpload_EmptyScans(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", nil)

	assert.ErrorIs(t, err, biometric.ErrEmptyUpload)
}

func TestProcessUpload_RepoFailure_MarksUploadFailed(t *testing.T) {
	t.Parallel()
	h := newHarness(
		[]employee.Employee{mariaRosel()},
		[]schedule.Schedule{mariaSchedule()},
		pendingUpload("up-1", at(2, 0, 0), at(2, 0, 0)),
	)
	h.attendances.createErr = errors.New("connection reset")

	_, err := h.svc.ProcessUpload(context.Background(), "up-1", scansAt(at(2, 7, 58), at(2, 17, 5)))

	require.Error(t, err)
	up, _ := h.uploads.GetByID(context.Background(), "up-1")
	assert.Equal(t, biometric.UploadStatusFailed, up.Status)
	require.NotNil(t, up.Error)
	assert.Contains(t, *up.Error, "connection reset")
}
