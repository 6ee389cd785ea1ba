package reconcile

import (
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

const (
	// undertimeThresholdMinutes: leaving more than this many minutes
	// before the scheduled out counts as undertime.
	undertimeThresholdMinutes = 60
	// undertimeSevereExtraMinutes: more than this many minutes beyond the
	// threshold escalates to undertime_more_than_hour.
	undertimeSevereExtraMinutes = 60
	// overtimeThresholdMinutes: staying more than this past the scheduled
	// out records overtime minutes (informational only).
	overtimeThresholdMinutes = 30
	// lunchDeductionMinutes is subtracted from shifts longer than
	// lunchThreshold unless the record carries a lunch-used override.
	lunchDeductionMinutes = 60
	lunchThreshold        = 5 * time.Hour
	// utility24hFullShiftMinutes is the minimum worked time for a
	// 24-hour utility shift to count as on time.
	utility24hFullShiftMinutes = 8 * 60
)

// DeriveInput carries everything the status derivation needs for one
// shift date.
type DeriveInput struct {
	ScheduledIn        time.Time
	ScheduledOut       time.Time
	ActualIn           *time.Time
	ActualOut          *time.Time
	GracePeriodMinutes int
	ShiftType          schedule.ShiftType
	OvertimeApproved   bool
	LunchUsed          bool
}

// Derivation is the multi-pass status result: a primary status, an
// optional secondary status, and the minute counters payroll aggregates.
type Derivation struct {
	Status             attendance.Status
	SecondaryStatus    *attendance.Status
	TardyMinutes       int
	UndertimeMinutes   int
	OvertimeMinutes    int
	TotalMinutesWorked int
}

// Derive converts scheduled-versus-actual times into an attendance
// status pair plus minute counters. The passes run in a fixed order so
// results are deterministic and explainable for audits: time-in status,
// time-out adjustment, presence combination, minutes worked.
func Derive(in DeriveInput) Derivation {
	var d Derivation

	// Presence rules come first: they decide whether there is anything
	// to grade at all.
	switch {
	case in.ActualIn == nil && in.ActualOut == nil:
		d.Status = attendance.StatusNCNS
		return d
	case in.ActualIn == nil:
		d.Status = attendance.StatusFailedBioIn
		return d
	}

	if in.ShiftType == schedule.ShiftTypeUtility24h {
		return deriveUtility24h(in)
	}

	// Time-in status.
	tardy := minutesBetween(in.ScheduledIn, *in.ActualIn)
	d.TardyMinutes = tardy
	switch {
	case tardy > in.GracePeriodMinutes:
		d.Status = attendance.StatusHalfDayAbsence
	case tardy >= 1:
		d.Status = attendance.StatusTardy
	default:
		d.Status = attendance.StatusOnTime
	}

	if in.ActualOut == nil {
		// Missing time-out overrides an on-time morning, but a concrete
		// tardy/absence status stays primary with the failure layered on.
		if d.Status == attendance.StatusOnTime {
			d.Status = attendance.StatusFailedBioOut
		} else {
			secondary := attendance.StatusFailedBioOut
			d.SecondaryStatus = &secondary
		}
		return d
	}

	// Time-out adjustment.
	diff := minutesBetween(in.ScheduledOut, *in.ActualOut)
	if diff < -undertimeThresholdMinutes {
		undertime := attendance.StatusUndertime
		if -diff > undertimeThresholdMinutes+undertimeSevereExtraMinutes {
			undertime = attendance.StatusUndertimeMoreThanHour
		}
		d.UndertimeMinutes = -diff
		if d.Status == attendance.StatusOnTime {
			d.Status = undertime
		} else {
			d.SecondaryStatus = &undertime
		}
	}
	if diff > overtimeThresholdMinutes {
		d.OvertimeMinutes = diff
	}

	d.TotalMinutesWorked = totalMinutesWorked(in, d.OvertimeMinutes)
	return d
}

func deriveUtility24h(in DeriveInput) Derivation {
	var d Derivation
	if in.ActualOut == nil {
		d.Status = attendance.StatusFailedBioOut
		return d
	}
	worked := int(in.ActualOut.Sub(*in.ActualIn).Minutes())
	if time.Duration(worked)*time.Minute > lunchThreshold && !in.LunchUsed {
		worked -= lunchDeductionMinutes
	}
	d.TotalMinutesWorked = worked
	if worked >= utility24hFullShiftMinutes {
		d.Status = attendance.StatusOnTime
	} else {
		d.Status = attendance.StatusUndertime
	}
	return d
}

// totalMinutesWorked computes the payable span: early arrivals do not
// count, unapproved overtime is capped at the scheduled out, and a lunch
// hour comes off any span past five hours.
func totalMinutesWorked(in DeriveInput, overtimeMinutes int) int {
	effIn := *in.ActualIn
	if effIn.Before(in.ScheduledIn) {
		effIn = in.ScheduledIn
	}
	effOut := *in.ActualOut
	if overtimeMinutes > 0 && !in.OvertimeApproved {
		effOut = in.ScheduledOut
	}
	raw := effOut.Sub(effIn)
	if raw > lunchThreshold && !in.LunchUsed {
		raw -= lunchDeductionMinutes * time.Minute
	}
	if raw < 0 {
		raw = 0
	}
	return int(raw.Minutes())
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
