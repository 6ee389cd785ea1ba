package point

import "errors"

var (
	ErrPointNotFound  = errors.New("attendance point not found")
	ErrDuplicatePoint = errors.New("attendance point already exists for employee and shift date")
)
