package point

import (
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
)

// Type is the disciplinary violation category.
type Type string

const (
	TypeWholeDayAbsence       Type = "whole_day_absence"
	TypeHalfDayAbsence        Type = "half_day_absence"
	TypeTardy                 Type = "tardy"
	TypeUndertime             Type = "undertime"
	TypeUndertimeMoreThanHour Type = "undertime_more_than_hour"
)

// pointValues is the point-value table. Higher value means a more severe
// violation; when both the primary and secondary statuses of one record
// are point-worthy, only the higher-value one is recorded.
var pointValues = map[Type]float64{
	TypeWholeDayAbsence:       1.00,
	TypeHalfDayAbsence:        0.50,
	TypeTardy:                 0.25,
	TypeUndertime:             0.25,
	TypeUndertimeMoreThanHour: 0.50,
}

// Value returns the point value for a violation type.
func (t Type) Value() float64 {
	return pointValues[t]
}

// TypeForStatus maps an attendance status to its violation type. The
// second return is false for statuses that never accrue points.
func TypeForStatus(s attendance.Status) (Type, bool) {
	switch s {
	case attendance.StatusNCNS, attendance.StatusAdvisedAbsence:
		return TypeWholeDayAbsence, true
	case attendance.StatusHalfDayAbsence:
		return TypeHalfDayAbsence, true
	case attendance.StatusTardy:
		return TypeTardy, true
	case attendance.StatusUndertime:
		return TypeUndertime, true
	case attendance.StatusUndertimeMoreThanHour:
		return TypeUndertimeMoreThanHour, true
	}
	return "", false
}

// AttendancePoint is one disciplinary violation derived from a verified
// attendance record. Immutable once created except for expiration
// bookkeeping.
type AttendancePoint struct {
	ID           string
	EmployeeID   string
	ShiftDate    time.Time
	AttendanceID string
	Type         Type
	Value        float64
	Description  string
	ExpiresAt    time.Time
	GBROEligible bool
	ExpiredAt    *time.Time
	CreatedAt    time.Time
}
