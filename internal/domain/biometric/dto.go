package biometric

// UploadResponse is the API representation of an upload.
type UploadResponse struct {
	ID         string        `json:"id"`
	FileName   string        `json:"file_name"`
	Status     string        `json:"status"`
	Error      *string       `json:"error,omitempty"`
	RangeStart string        `json:"range_start"`
	RangeEnd   string        `json:"range_end"`
	Summary    ImportSummary `json:"summary"`
	CreatedAt  string        `json:"created_at"`
}

// RecordResponse is the API representation of a raw-scan audit row.
type RecordResponse struct {
	ID         string  `json:"id"`
	UploadID   string  `json:"upload_id"`
	EmployeeID string  `json:"employee_id"`
	RawName    string  `json:"raw_name"`
	ScannedAt  string  `json:"scanned_at"`
	SiteID     *string `json:"site_id,omitempty"`
}

func (rec Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:         rec.ID,
		UploadID:   rec.UploadID,
		EmployeeID: rec.EmployeeID,
		RawName:    rec.RawName,
		ScannedAt:  rec.ScannedAt.Format("2006-01-02T15:04:05Z07:00"),
		SiteID:     rec.SiteID,
	}
}

func (u Upload) ToResponse() UploadResponse {
	return UploadResponse{
		ID:         u.ID,
		FileName:   u.FileName,
		Status:     string(u.Status),
		Error:      u.Error,
		RangeStart: u.RangeStart.Format("2006-01-02"),
		RangeEnd:   u.RangeEnd.Format("2006-01-02"),
		Summary:    u.Summary,
		CreatedAt:  u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
