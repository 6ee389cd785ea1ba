package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/attendance"
	"github.com/peopleops-hr/bioattend-backend-go/internal/handler/http/middleware"
	"github.com/peopleops-hr/bioattend-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	SendToReview(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := attendance.Filter{}

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		s := attendance.Status(v)
		filter.Status = &s
	}
	if v := q.Get("lifecycle"); v != "" {
		lc := attendance.Lifecycle(v)
		filter.Lifecycle = &lc
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid date_from, expected YYYY-MM-DD", nil)
			return
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid date_to, expected YYYY-MM-DD", nil)
			return
		}
		filter.DateTo = &t
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rec)
}

type verifyPayload struct {
	Status *string `json:"status,omitempty"`
}

// Verify implements AttendanceHandler.
func (h *attendanceHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload verifyPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	req := attendance.VerifyRequest{
		ID:         id,
		VerifiedBy: middleware.AdminID(r),
	}
	if payload.Status != nil {
		s := attendance.Status(*payload.Status)
		req.Status = &s
	}

	rec, err := h.attendanceService.Verify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record verified", rec)
}

// SendToReview implements AttendanceHandler.
func (h *attendanceHandlerImpl) SendToReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.attendanceService.SendToReview(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record sent to review", rec)
}

type updatePayload struct {
	ActualTimeIn     *string `json:"actual_time_in,omitempty"`
	ActualTimeOut    *string `json:"actual_time_out,omitempty"`
	Status           *string `json:"status,omitempty"`
	SecondaryStatus  *string `json:"secondary_status,omitempty"`
	OvertimeApproved *bool   `json:"overtime_approved,omitempty"`
	LunchUsed        *bool   `json:"lunch_used,omitempty"`
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := attendance.UpdateRequest{
		ID:               id,
		OvertimeApproved: payload.OvertimeApproved,
		LunchUsed:        payload.LunchUsed,
	}
	if payload.ActualTimeIn != nil {
		t, err := time.Parse(time.RFC3339, *payload.ActualTimeIn)
		if err != nil {
			response.BadRequest(w, "Invalid actual_time_in, expected RFC 3339", nil)
			return
		}
		req.ActualTimeIn = &t
	}
	if payload.ActualTimeOut != nil {
		t, err := time.Parse(time.RFC3339, *payload.ActualTimeOut)
		if err != nil {
			response.BadRequest(w, "Invalid actual_time_out, expected RFC 3339", nil)
			return
		}
		req.ActualTimeOut = &t
	}
	if payload.Status != nil {
		s := attendance.Status(*payload.Status)
		req.Status = &s
	}
	if payload.SecondaryStatus != nil {
		s := attendance.Status(*payload.SecondaryStatus)
		req.SecondaryStatus = &s
	}

	rec, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record updated", rec)
}
