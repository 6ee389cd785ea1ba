package biometric

import "errors"

var (
	ErrUploadNotFound   = errors.New("upload not found")
	ErrUploadNotPending = errors.New("upload has already been processed")
	ErrEmptyUpload      = errors.New("upload contains no scans")
	ErrInvalidDateRange = errors.New("upload date range is invalid")
)
