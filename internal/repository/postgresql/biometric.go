package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
)

type uploadRepository struct {
	db *database.DB
}

func NewUploadRepository(db *database.DB) biometric.UploadRepository {
	return &uploadRepository{db: db}
}

// Create implements biometric.UploadRepository.
func (r *uploadRepository) Create(ctx context.Context, up biometric.Upload) (biometric.Upload, error) {
	q := r.db.Querier(ctx)

	if up.ID == "" {
		up.ID = uuid.New().String()
	}

	query := `
		INSERT INTO biometric_uploads (id, file_name, status, range_start, range_end, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		up.ID, up.FileName, biometric.UploadStatusPending, up.RangeStart, up.RangeEnd, up.Summary,
	).Scan(&up.CreatedAt, &up.UpdatedAt)
	if err != nil {
		return biometric.Upload{}, fmt.Errorf("failed to create upload: %w", err)
	}
	up.Status = biometric.UploadStatusPending
	return up, nil
}

// GetByID implements biometric.UploadRepository.
func (r *uploadRepository) GetByID(ctx context.Context, id string) (biometric.Upload, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT id, file_name, status, error, range_start, range_end, summary, created_at, updated_at
		FROM biometric_uploads
		WHERE id = $1
	`

	var up biometric.Upload
	err := q.QueryRow(ctx, query, id).Scan(
		&up.ID, &up.FileName, &up.Status, &up.Error,
		&up.RangeStart, &up.RangeEnd, &up.Summary,
		&up.CreatedAt, &up.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return biometric.Upload{}, biometric.ErrUploadNotFound
		}
		return biometric.Upload{}, fmt.Errorf("failed to get upload: %w", err)
	}
	return up, nil
}

// MarkProcessing implements biometric.UploadRepository.
func (r *uploadRepository) MarkProcessing(ctx context.Context, id string) error {
	q := r.db.Querier(ctx)

	query := `
		UPDATE biometric_uploads
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := q.Exec(ctx, query, id, biometric.UploadStatusProcessing, biometric.UploadStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark upload processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return biometric.ErrUploadNotPending
	}
	return nil
}

// MarkCompleted implements biometric.UploadRepository.
func (r *uploadRepository) MarkCompleted(ctx context.Context, id string, summary biometric.ImportSummary) error {
	q := r.db.Querier(ctx)

	query := `
		UPDATE biometric_uploads
		SET status = $2, summary = $3, error = NULL, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, biometric.UploadStatusCompleted, summary)
	if err != nil {
		return fmt.Errorf("failed to mark upload completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return biometric.ErrUploadNotFound
	}
	return nil
}

// MarkFailed implements biometric.UploadRepository.
func (r *uploadRepository) MarkFailed(ctx context.Context, id string, message string) error {
	q := r.db.Querier(ctx)

	query := `
		UPDATE biometric_uploads
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, biometric.UploadStatusFailed, message)
	if err != nil {
		return fmt.Errorf("failed to mark upload failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return biometric.ErrUploadNotFound
	}
	return nil
}

type biometricRecordRepository struct {
	db *database.DB
}

func NewBiometricRecordRepository(db *database.DB) biometric.RecordRepository {
	return &biometricRecordRepository{db: db}
}

// CreateBatch implements biometric.RecordRepository.
func (r *biometricRecordRepository) CreateBatch(ctx context.Context, records []biometric.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := r.db.Querier(ctx)

	query := `
		INSERT INTO biometric_records (upload_id, employee_id, raw_name, scanned_at, site_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.UploadID, rec.EmployeeID, rec.RawName, rec.ScannedAt, rec.SiteID)
	}

	var res pgx.BatchResults
	switch conn := q.(type) {
	case pgx.Tx:
		res = conn.SendBatch(ctx, batch)
	default:
		res = r.db.Pool.SendBatch(ctx, batch)
	}
	defer res.Close()

	for range records {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("failed to insert biometric record: %w", err)
		}
	}
	return nil
}

// ListByUpload implements biometric.RecordRepository.
func (r *biometricRecordRepository) ListByUpload(ctx context.Context, uploadID string) ([]biometric.Record, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT id, upload_id, employee_id, raw_name, scanned_at, site_id, created_at
		FROM biometric_records
		WHERE upload_id = $1
		ORDER BY scanned_at
	`

	rows, err := q.Query(ctx, query, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list biometric records: %w", err)
	}
	defer rows.Close()

	var records []biometric.Record
	for rows.Next() {
		var rec biometric.Record
		if err := rows.Scan(
			&rec.ID, &rec.UploadID, &rec.EmployeeID, &rec.RawName,
			&rec.ScannedAt, &rec.SiteID, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan biometric record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate biometric records: %w", err)
	}
	return records, nil
}
