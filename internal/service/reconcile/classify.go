package reconcile

import (
	"fmt"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

const (
	// doublePunchWindow is the gap under which an in/out pair is assumed
	// to be one physical clock event duplicated by scanner error.
	doublePunchWindow = 10 * time.Minute
	// maxShiftDuration is the gap beyond which a time-out is assumed to
	// belong to a different shift entirely.
	maxShiftDuration = 20 * time.Hour
	// veryLateInThreshold pushes a lone scan past the scheduled out into
	// "very late time in" territory instead of a time-out.
	veryLateInThreshold = 2 * time.Hour
	// inSearchSlack bounds how far before the scheduled start the
	// time-in search looks on overnight shifts.
	inSearchSlack = 6 * time.Hour
)

// Classification is the classifier's verdict for one scan cluster:
// which scan clocks the shift in, which clocks it out, and any scans it
// had to discard along the way.
type Classification struct {
	TimeIn   *biometric.RawScan
	TimeOut  *biometric.RawScan
	Warnings []string
}

// Classify determines the time-in and time-out scans within one
// shift-date cluster. The search windows are topology-specific so an
// early-morning time-out is never mistaken for a late-night time-in.
func Classify(cluster []biometric.RawScan, sched schedule.Schedule, shiftDate time.Time) Classification {
	var c Classification
	if len(cluster) == 0 {
		return c
	}

	schedIn, schedOut := sched.Window(shiftDate)
	midpoint := schedIn.Add(schedOut.Sub(schedIn) / 2)

	// 24-hour utility shifts clock many intermediate scans; only the
	// first and last matter.
	if sched.ShiftType == schedule.ShiftTypeUtility24h && len(cluster) > 2 {
		first, last := cluster[0], cluster[len(cluster)-1]
		c.TimeIn, c.TimeOut = &first, &last
		return c
	}

	// A single shared scan splits at the midpoint between the scheduled
	// clock times, unless it lands so far past the scheduled out that it
	// can only be a very late time-in.
	if len(cluster) == 1 {
		only := cluster[0]
		switch {
		case only.Timestamp.After(schedOut.Add(veryLateInThreshold)):
			c.TimeIn = &only
		case only.Timestamp.Before(midpoint):
			c.TimeIn = &only
		default:
			c.TimeOut = &only
		}
		return c
	}

	timeIn := searchTimeIn(cluster, sched, schedIn, midpoint)
	timeOut := searchTimeOut(cluster, schedOut, midpoint, timeIn)

	if timeIn != nil && timeOut != nil {
		gap := timeOut.Timestamp.Sub(timeIn.Timestamp)
		switch {
		case gap < doublePunchWindow:
			c.Warnings = append(c.Warnings, fmt.Sprintf(
				"double punch: scans %s apart, time out discarded as duplicate", gap.Round(time.Minute)))
			timeOut = nil
		case gap > maxShiftDuration:
			c.Warnings = append(c.Warnings, fmt.Sprintf(
				"excessive duration: scans %s apart, time out discarded as mismatched", gap.Round(time.Hour)))
			timeOut = nil
		}
	}

	c.TimeIn, c.TimeOut = timeIn, timeOut
	return c
}

// searchTimeIn picks the time-in scan. Same-day shifts take the earliest
// scan on the shift date; overnight topologies search a band around the
// scheduled start and pick the scan closest to it.
func searchTimeIn(cluster []biometric.RawScan, sched schedule.Schedule, schedIn, midpoint time.Time) *biometric.RawScan {
	if sched.Topology() == schedule.SameDay {
		first := cluster[0]
		if first.Timestamp.Before(midpoint) {
			return &first
		}
		return nil
	}

	var best *biometric.RawScan
	lo := schedIn.Add(-inSearchSlack)
	for i := range cluster {
		sc := cluster[i]
		if sc.Timestamp.Before(lo) || !sc.Timestamp.Before(midpoint) {
			continue
		}
		if best == nil || absDuration(sc.Timestamp.Sub(schedIn)) < absDuration(best.Timestamp.Sub(schedIn)) {
			best = &sc
		}
	}
	return best
}

// searchTimeOut prefers the scan closest to the scheduled time-out,
// ignoring spurious re-entries further away. With a resolved time-in any
// later scan is a candidate; without one, only late-half scans are, so a
// lone morning scan is never read as a time-out.
func searchTimeOut(cluster []biometric.RawScan, schedOut, midpoint time.Time, timeIn *biometric.RawScan) *biometric.RawScan {
	var best *biometric.RawScan
	for i := range cluster {
		sc := cluster[i]
		if timeIn != nil {
			if !sc.Timestamp.After(timeIn.Timestamp) {
				continue
			}
		} else if sc.Timestamp.Before(midpoint) {
			continue
		}
		if best == nil || absDuration(sc.Timestamp.Sub(schedOut)) < absDuration(best.Timestamp.Sub(schedOut)) {
			best = &sc
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
