package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound     = errors.New("attendance record not found")
	ErrRecordVerified     = errors.New("attendance record is verified and frozen against edits")
	ErrInvalidTransition  = errors.New("invalid attendance lifecycle transition")
	ErrInvalidStatus      = errors.New("invalid attendance status")
	ErrDuplicateShiftDate = errors.New("attendance record already exists for employee and shift date")
)
