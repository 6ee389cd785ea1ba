package reconcile

import (
	"sort"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

// nearStartTolerance is how early before the scheduled start a scan is
// still pulled onto "today's" next-day shift.
const nearStartTolerance = 60 * time.Minute

// AssignShiftDates groups one employee's raw scans into per-shift-date
// clusters, the unit the rest of the pipeline operates on. The shift
// date may differ from a scan's calendar date for overnight shifts.
func AssignShiftDates(sched schedule.Schedule, scans []biometric.RawScan) map[time.Time][]biometric.RawScan {
	clusters := make(map[time.Time][]biometric.RawScan)
	for _, sc := range scans {
		d := shiftDateFor(sched, sc.Timestamp)
		clusters[d] = append(clusters[d], sc)
	}
	for d := range clusters {
		cluster := clusters[d]
		sort.Slice(cluster, func(i, j int) bool { return cluster[i].Timestamp.Before(cluster[j].Timestamp) })
		clusters[d] = cluster
	}
	return clusters
}

func shiftDateFor(sched schedule.Schedule, ts time.Time) time.Time {
	scanDate := dateOnly(ts)

	switch sched.Topology() {
	case schedule.Graveyard:
		// Late-evening scans are early arrivals for that calendar date's
		// shift; everything earlier belongs to the previous date's shift
		// when the previous date is a scheduled work day.
		if ts.Hour() >= 20 {
			return scanDate
		}
		prev := scanDate.AddDate(0, 0, -1)
		if sched.WorksOn(prev.Weekday()) {
			return prev
		}
		return scanDate

	case schedule.NextDay:
		startHour := sched.TimeIn.Hour()
		startToday := schedule.At(scanDate, sched.TimeIn)

		// Near-start band: slightly-early arrivals stay on today's shift.
		if !ts.Before(startToday.Add(-nearStartTolerance)) && ts.Before(startToday) {
			return scanDate
		}
		if ts.Hour() < startHour {
			// Shifts starting late at night accept 18:00-23:00 scans as
			// early arrivals for today's shift.
			if startHour >= 22 && ts.Hour() >= 18 {
				return scanDate
			}
			return scanDate.AddDate(0, 0, -1)
		}
		return scanDate

	default:
		return scanDate
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
