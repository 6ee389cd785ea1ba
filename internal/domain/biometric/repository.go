package biometric

import "context"

// UploadRepository tracks reconciliation batches and their status
// transitions: pending -> processing -> completed|failed.
type UploadRepository interface {
	// Create registers a new pending upload
	Create(ctx context.Context, upload Upload) (Upload, error)

	// GetByID retrieves an upload with its summary
	GetByID(ctx context.Context, id string) (Upload, error)

	// MarkProcessing flips a pending upload to processing
	MarkProcessing(ctx context.Context, id string) error

	// MarkCompleted records the final summary on a successful run
	MarkCompleted(ctx context.Context, id string, summary ImportSummary) error

	// MarkFailed records the captured error. Called outside the upload
	// transaction so the failure survives the rollback.
	MarkFailed(ctx context.Context, id string, message string) error
}

// RecordRepository is the append-only raw-scan audit log.
type RecordRepository interface {
	// CreateBatch appends audit rows for one employee's resolved scans
	CreateBatch(ctx context.Context, records []Record) error

	// ListByUpload retrieves the audit rows for one upload
	ListByUpload(ctx context.Context, uploadID string) ([]Record, error)
}
