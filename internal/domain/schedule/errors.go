package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("no active schedule found for employee")
)
