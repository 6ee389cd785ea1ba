package biometric

import "time"

// RawScan is one pre-parsed time-clock event from an uploaded export:
// the display name the device printed and the scan instant. Ephemeral;
// parsed fresh per upload.
type RawScan struct {
	Name      string
	Timestamp time.Time
	SiteID    *string
}

// Record is the immutable audit copy of a raw scan, persisted verbatim
// once the scan resolves to an employee. Unresolved scans are discarded
// and surfaced through the upload summary instead.
type Record struct {
	ID         string
	UploadID   string
	EmployeeID string
	RawName    string
	ScannedAt  time.Time
	SiteID     *string
	CreatedAt  time.Time
}

type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
)

// Upload is one reconciliation batch: a single exported scan file
// processed end to end inside one transaction.
type Upload struct {
	ID         string
	FileName   string
	Status     UploadStatus
	Error      *string
	RangeStart time.Time
	RangeEnd   time.Time
	Summary    ImportSummary
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ImportSummary is the engine's per-upload output contract. Operators
// inspect it to decide on manual correction; it is the only user-visible
// surface besides the records themselves.
type ImportSummary struct {
	TotalRecords     int      `json:"total_records"`
	Processed        int      `json:"processed"`
	MatchedEmployees int      `json:"matched_employees"`
	UnmatchedNames   []string `json:"unmatched_names"`
	Errors           []string `json:"errors"`
	DateWarnings     []string `json:"date_warnings"`
	DatesFound       []string `json:"dates_found"`
	NonWorkDayScans  []string `json:"non_work_day_scans"`
}
