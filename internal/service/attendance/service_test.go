package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
)

type fakeRepo struct {
	records map[string]attendance.Record
}

func newFakeRepo(records ...attendance.Record) *fakeRepo {
	r := &fakeRepo{records: make(map[string]attendance.Record)}
	for _, rec := range records {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, shiftDate time.Time) (*attendance.Record, error) {
	return nil, nil
}

func (r *fakeRepo) Update(ctx context.Context, rec attendance.Record) error {
	if _, ok := r.records[rec.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ListVerifiedByDate(ctx context.Context, shiftDate time.Time) ([]attendance.Record, error) {
	return nil, nil
}

type fakeEmployeeRepo struct{}

func (fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id == "emp-1" {
		return employee.Employee{ID: id, LastName: "Rosel", FirstName: "Maria"}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func testTime(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func baseRecord(id string, lc attendance.Lifecycle) attendance.Record {
	in, out := testTime(8, 0), testTime(17, 0)
	actIn := testTime(8, 5)
	return attendance.Record{
		ID:               id,
		EmployeeID:       "emp-1",
		ShiftDate:        time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		ScheduledTimeIn:  &in,
		ScheduledTimeOut: &out,
		ActualTimeIn:     &actIn,
		Status:           attendance.StatusTardy,
		TardyMinutes:     5,
		Lifecycle:        lc,
	}
}

func newService(records ...attendance.Record) (*AttendanceServiceImpl, *fakeRepo) {
	repo := newFakeRepo(records...)
	svc := NewAttendanceService(repo, fakeEmployeeRepo{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()
	svc, repo := newService(baseRecord("rec-1", attendance.LifecycleAutoReconciled))

	resp, err := svc.Verify(context.Background(), attendance.VerifyRequest{
		ID: "rec-1", VerifiedBy: "admin-1",
	})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.LifecycleVerified), resp.Lifecycle)

	stored := repo.records["rec-1"]
	require.NotNil(t, stored.VerifiedBy)
	assert.Equal(t, "admin-1", *stored.VerifiedBy)
	assert.NotNil(t, stored.VerifiedAt)
}

func TestVerify_StatusOverride(t *testing.T) {
	t.Parallel()
	rec := baseRecord("rec-1", attendance.LifecycleAutoReconciled)
	rec.Status = attendance.StatusNCNS
	svc, _ := newService(rec)

	advised := attendance.StatusAdvisedAbsence
	resp, err := svc.Verify(context.Background(), attendance.VerifyRequest{
		ID: "rec-1", VerifiedBy: "admin-1", Status: &advised,
	})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusAdvisedAbsence), resp.Status)
}

func TestVerify_AlreadyVerified(t *testing.T) {
	t.Parallel()
	svc, _ := newService(baseRecord("rec-1", attendance.LifecycleVerified))

	_, err := svc.Verify(context.Background(), attendance.VerifyRequest{
		ID: "rec-1", VerifiedBy: "admin-1",
	})

	assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
}

func TestVerify_InvalidStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newService(baseRecord("rec-1", attendance.LifecycleAutoReconciled))

	bogus := attendance.Status("bogus")
	_, err := svc.Verify(context.Background(), attendance.VerifyRequest{
		ID: "rec-1", VerifiedBy: "admin-1", Status: &bogus,
	})

	assert.ErrorIs(t, err, attendance.ErrInvalidStatus)
}

func TestSendToReview_ReopensVerified(t *testing.T) {
	t.Parallel()
	rec := baseRecord("rec-1", attendance.LifecycleVerified)
	admin := "admin-1"
	now := time.Now()
	rec.VerifiedBy, rec.VerifiedAt = &admin, &now
	svc, repo := newService(rec)

	resp, err := svc.SendToReview(context.Background(), "rec-1")

	require.NoError(t, err)
	assert.Equal(t, string(attendance.LifecyclePendingReview), resp.Lifecycle)
	stored := repo.records["rec-1"]
	assert.Nil(t, stored.VerifiedBy)
	assert.Nil(t, stored.VerifiedAt)
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	t.Parallel()
	svc, repo := newService(baseRecord("rec-1", attendance.LifecycleAutoReconciled))

	out := testTime(17, 0)
	_, err := svc.Update(context.Background(), attendance.UpdateRequest{
		ID:            "rec-1",
		ActualTimeOut: &out,
	})

	require.NoError(t, err)
	stored := repo.records["rec-1"]
	// 08:05 to 17:00 is 535 minutes less the lunch hour.
	assert.Equal(t, 475, stored.TotalMinutesWorked)
}

func TestUpdate_OvertimeApproval_LiftsCap(t *testing.T) {
	t.Parallel()
	rec := baseRecord("rec-1", attendance.LifecycleAutoReconciled)
	in := testTime(8, 0)
	out := testTime(18, 0)
	rec.ActualTimeIn = &in
	rec.ActualTimeOut = &out
	svc, repo := newService(rec)

	approved := true
	_, err := svc.Update(context.Background(), attendance.UpdateRequest{
		ID:               "rec-1",
		OvertimeApproved: &approved,
	})

	require.NoError(t, err)
	assert.Equal(t, 540, repo.records["rec-1"].TotalMinutesWorked)
}

func TestUpdate_VerifiedRecord_Blocked(t *testing.T) {
	t.Parallel()
	svc, _ := newService(baseRecord("rec-1", attendance.LifecycleVerified))

	out := testTime(17, 0)
	_, err := svc.Update(context.Background(), attendance.UpdateRequest{
		ID:            "rec-1",
		ActualTimeOut: &out,
	})

	assert.ErrorIs(t, err, attendance.ErrRecordVerified)
}

func TestGet_IncludesEmployeeName(t *testing.T) {
	t.Parallel()
	svc, _ := newService(baseRecord("rec-1", attendance.LifecycleAutoReconciled))

	resp, err := svc.Get(context.Background(), "rec-1")

	require.NoError(t, err)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Rosel, Maria", *resp.EmployeeName)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestList_Pagination(t *testing.T) {
	t.Parallel()
	svc, _ := newService(
		baseRecord("rec-1", attendance.LifecycleAutoReconciled),
		baseRecord("rec-2", attendance.LifecycleAutoReconciled),
	)

	resp, err := svc.List(context.Background(), attendance.Filter{Page: 0, Limit: 0})

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Records, 2)
}
