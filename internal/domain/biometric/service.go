package biometric

import "context"

// UploadProcessor reconciles one upload batch end to end.
type UploadProcessor interface {
	ProcessUpload(ctx context.Context, uploadID string, scans []RawScan) (ImportSummary, error)
}
