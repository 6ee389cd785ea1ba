package reconcile

import (
	"fmt"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
)

const (
	farFromBoundary = 2 * time.Hour
	earlyInAnomaly  = 3 * time.Hour
	lateOutAnomaly  = 4 * time.Hour
	earlyOutAnomaly = 3 * time.Hour
	wideScanPairGap = 12 * time.Hour
)

// AnomalyReport flags suspicious scan patterns for manual review. It
// runs independently of status derivation and only overlays warnings;
// escalation to needs_manual_review as the primary status happens in the
// orchestrator and only from already-ambiguous statuses.
type AnomalyReport struct {
	NeedsReview bool
	Warnings    []string
}

// DetectAnomalies inspects a cluster against the scheduled window and
// the classifier's verdict.
func DetectAnomalies(cluster []biometric.RawScan, schedIn, schedOut time.Time, timeIn, timeOut *biometric.RawScan) AnomalyReport {
	var rep AnomalyReport
	if len(cluster) == 0 {
		return rep
	}

	if timeIn == nil && timeOut == nil {
		rep.NeedsReview = true
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%d scan(s) present but neither time in nor time out resolved", len(cluster)))
		return rep
	}

	if len(cluster) <= 2 && allFarFromBoundaries(cluster, schedIn, schedOut) {
		rep.NeedsReview = true
		rep.Warnings = append(rep.Warnings,
			"all scans more than 2 hours from both scheduled times")
	}

	if timeIn != nil {
		if early := schedIn.Sub(timeIn.Timestamp); early > earlyInAnomaly {
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("time in %s before scheduled start", early.Round(time.Minute)))
		}
	}
	if timeOut != nil {
		if late := timeOut.Timestamp.Sub(schedOut); late > lateOutAnomaly {
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("time out %s after scheduled end", late.Round(time.Minute)))
		} else if early := schedOut.Sub(timeOut.Timestamp); early > earlyOutAnomaly {
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("time out %s before scheduled end", early.Round(time.Minute)))
		}
	}

	if len(cluster) == 2 {
		gap := cluster[1].Timestamp.Sub(cluster[0].Timestamp)
		if gap > wideScanPairGap && allFarFromBoundaries(cluster, schedIn, schedOut) {
			rep.NeedsReview = true
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("two scans %s apart matching neither scheduled boundary", gap.Round(time.Hour)))
		}
	}

	return rep
}

func allFarFromBoundaries(cluster []biometric.RawScan, schedIn, schedOut time.Time) bool {
	for _, sc := range cluster {
		if absDuration(sc.Timestamp.Sub(schedIn)) <= farFromBoundary {
			return false
		}
		if absDuration(sc.Timestamp.Sub(schedOut)) <= farFromBoundary {
			return false
		}
	}
	return true
}
