package response

import (
	"errors"
	"net/http"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/point"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordVerified):
		Conflict(w, "Attendance record is verified and cannot be modified")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, "Invalid lifecycle transition")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid attendance status", nil)
	case errors.Is(err, attendance.ErrDuplicateShiftDate):
		Conflict(w, "Attendance record already exists for this shift date")

	// Biometric upload errors
	case errors.Is(err, biometric.ErrUploadNotFound):
		NotFound(w, "Upload not found")
	case errors.Is(err, biometric.ErrUploadNotPending):
		Conflict(w, "Upload has already been processed")
	case errors.Is(err, biometric.ErrEmptyUpload):
		BadRequest(w, "Upload contains no scans", nil)
	case errors.Is(err, biometric.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)

	// Directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")

	// Point errors
	case errors.Is(err, point.ErrPointNotFound):
		NotFound(w, "Attendance point not found")
	case errors.Is(err, point.ErrDuplicatePoint):
		Conflict(w, "Attendance point already exists for this shift date")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
