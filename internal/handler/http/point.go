package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/point"
	"github.com/peopleops-hr/bioattend-backend-go/internal/handler/http/response"
)

type PointHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Expire(w http.ResponseWriter, r *http.Request)
}

type pointHandlerImpl struct {
	pointService point.PointService
}

func NewPointHandler(pointService point.PointService) PointHandler {
	return &pointHandlerImpl{
		pointService: pointService,
	}
}

type generatePayload struct {
	ShiftDate string `json:"shift_date"`
}

// Generate implements PointHandler.
func (h *pointHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	shiftDate, err := time.Parse("2006-01-02", payload.ShiftDate)
	if err != nil {
		response.BadRequest(w, "Invalid shift_date, expected YYYY-MM-DD", nil)
		return
	}

	created, err := h.pointService.GenerateForDate(r.Context(), shiftDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Points generated", map[string]interface{}{
		"count":  len(created),
		"points": toResponses(created),
	})
}

// ListByEmployee implements PointHandler.
func (h *pointHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	points, err := h.pointService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, toResponses(points))
}

func toResponses(points []point.AttendancePoint) []point.Response {
	out := make([]point.Response, 0, len(points))
	for _, p := range points {
		out = append(out, p.ToResponse())
	}
	return out
}

// Expire implements PointHandler.
func (h *pointHandlerImpl) Expire(w http.ResponseWriter, r *http.Request) {
	n, err := h.pointService.ExpirePoints(r.Context(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Expired points marked", map[string]interface{}{
		"expired": n,
	})
}
