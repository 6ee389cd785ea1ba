package point

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/point"
)

const (
	// wholeDayExpiry applies to NCNS-derived points; they also never
	// qualify for good-behavior roll-off.
	wholeDayExpiry = 365 * 24 * time.Hour
	defaultExpiry  = 180 * 24 * time.Hour
)

type PointServiceImpl struct {
	point.PointRepository
	attendance.AttendanceRepository
	logger *slog.Logger
}

func NewPointService(pointRepo point.PointRepository, attendanceRepo attendance.AttendanceRepository, logger *slog.Logger) *PointServiceImpl {
	return &PointServiceImpl{
		PointRepository:      pointRepo,
		AttendanceRepository: attendanceRepo,
		logger:               logger,
	}
}

// GenerateForDate derives disciplinary points from the verified records
// of one shift date. Re-running is safe: each (employee, shift date) is
// probed before insert, so already-generated points are skipped.
func (s *PointServiceImpl) GenerateForDate(ctx context.Context, shiftDate time.Time) ([]point.AttendancePoint, error) {
	records, err := s.AttendanceRepository.ListVerifiedByDate(ctx, shiftDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified records: %w", err)
	}

	var created []point.AttendancePoint
	for _, rec := range records {
		pointType, suppressed, ok := violationFor(rec)
		if !ok {
			continue
		}

		exists, err := s.PointRepository.Exists(ctx, rec.EmployeeID, rec.ShiftDate)
		if err != nil {
			return created, fmt.Errorf("failed to probe existing points: %w", err)
		}
		if exists {
			continue
		}

		p := buildPoint(rec, pointType, suppressed)
		stored, err := s.PointRepository.Create(ctx, p)
		if err != nil {
			return created, fmt.Errorf("failed to create point: %w", err)
		}
		created = append(created, stored)
	}

	if len(created) > 0 {
		s.logger.Info("points generated",
			slog.String("shift_date", shiftDate.Format("2006-01-02")),
			slog.Int("count", len(created)))
	}
	return created, nil
}

// ListByEmployee returns an employee's point history, newest first.
func (s *PointServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]point.AttendancePoint, error) {
	points, err := s.PointRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	return points, nil
}

// ExpirePoints stamps every point whose expiry has passed as of now.
func (s *PointServiceImpl) ExpirePoints(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := s.PointRepository.MarkExpired(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to expire points: %w", err)
	}
	if n > 0 {
		s.logger.Info("points expired", slog.Int64("count", n))
	}
	return n, nil
}

// violationFor picks the single violation a record accrues. When both
// the primary and secondary statuses are point-worthy only the
// higher-value type is charged; the suppressed one is named in the
// point description.
func violationFor(rec attendance.Record) (point.Type, *point.Type, bool) {
	primary, okPrimary := point.TypeForStatus(rec.Status)
	var secondary point.Type
	okSecondary := false
	if rec.SecondaryStatus != nil {
		secondary, okSecondary = point.TypeForStatus(*rec.SecondaryStatus)
	}

	switch {
	case okPrimary && okSecondary:
		if secondary.Value() > primary.Value() {
			return secondary, &primary, true
		}
		return primary, &secondary, true
	case okPrimary:
		return primary, nil, true
	case okSecondary:
		return secondary, nil, true
	}
	return "", nil, false
}

func buildPoint(rec attendance.Record, t point.Type, suppressed *point.Type) point.AttendancePoint {
	// Only a true NCNS carries the long expiry and loses roll-off
	// eligibility; an advised absence is still a whole-day point but
	// expires on the normal clock.
	expiry := defaultExpiry
	gbro := true
	if rec.Status == attendance.StatusNCNS {
		expiry = wholeDayExpiry
		gbro = false
	}

	desc := fmt.Sprintf("%s on %s", t, rec.ShiftDate.Format("2006-01-02"))
	if suppressed != nil {
		desc += fmt.Sprintf(" (%s absorbed, lower value)", *suppressed)
	}

	return point.AttendancePoint{
		EmployeeID:   rec.EmployeeID,
		ShiftDate:    rec.ShiftDate,
		AttendanceID: rec.ID,
		Type:         t,
		Value:        t.Value(),
		Description:  desc,
		ExpiresAt:    rec.ShiftDate.Add(expiry),
		GBROEligible: gbro,
	}
}
