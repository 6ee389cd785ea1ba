package attendance

import "context"

// AttendanceService is the admin-facing surface over reconciled records.
type AttendanceService interface {
	// List retrieves records with filters and pagination
	List(ctx context.Context, filter Filter) (ListResponse, error)

	// Get retrieves a single record
	Get(ctx context.Context, id string) (Response, error)

	// Verify moves a record to verified, optionally overriding the status
	Verify(ctx context.Context, req VerifyRequest) (Response, error)

	// SendToReview moves a record into pending_review, including
	// reopening a verified record
	SendToReview(ctx context.Context, id string) (Response, error)

	// Update applies an admin correction to a non-verified record
	Update(ctx context.Context, req UpdateRequest) (Response, error)
}
