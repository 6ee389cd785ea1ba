package biometric

import (
	"fmt"
	"time"
)

// FilterByDateRange partitions scans into those inside the expected
// window and those outside it. The window is inclusive of both endpoint
// dates, padded by one day on each side so overnight-shift scans that
// spill past a boundary are kept. Out-of-range scans are a warning, not
// an error.
func FilterByDateRange(scans []RawScan, start, end time.Time) (inRange, outOfRange []RawScan, summary string) {
	lo := truncateDay(start).AddDate(0, 0, -1)
	hi := truncateDay(end).AddDate(0, 0, 2) // exclusive upper bound

	for _, sc := range scans {
		if sc.Timestamp.Before(lo) || !sc.Timestamp.Before(hi) {
			outOfRange = append(outOfRange, sc)
			continue
		}
		inRange = append(inRange, sc)
	}

	summary = fmt.Sprintf("%d of %d scans within %s to %s",
		len(inRange), len(scans),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return inRange, outOfRange, summary
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
