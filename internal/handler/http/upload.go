package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/biometric"
	"github.com/peopleops-hr/bioattend-backend-go/internal/handler/http/response"
)

type UploadHandler interface {
	Ingest(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	uploadRepo biometric.UploadRepository
	recordRepo biometric.RecordRepository
	processor  biometric.UploadProcessor
	location   *time.Location
}

func NewUploadHandler(
	uploadRepo biometric.UploadRepository,
	recordRepo biometric.RecordRepository,
	processor biometric.UploadProcessor,
	location *time.Location,
) UploadHandler {
	return &uploadHandlerImpl{
		uploadRepo: uploadRepo,
		recordRepo: recordRepo,
		processor:  processor,
		location:   location,
	}
}

type scanPayload struct {
	Name      string  `json:"name"`
	Timestamp string  `json:"timestamp"`
	SiteID    *string `json:"site_id,omitempty"`
}

type ingestRequest struct {
	FileName   string        `json:"file_name"`
	RangeStart string        `json:"range_start"`
	RangeEnd   string        `json:"range_end"`
	Scans      []scanPayload `json:"scans"`
}

// parseScanTime accepts device exports ("2006-01-02 15:04:05", stamped
// in the configured timezone) and RFC 3339.
func (h *uploadHandlerImpl) parseScanTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, h.location); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Ingest implements UploadHandler. It registers the upload and runs
// reconciliation synchronously; the response carries the summary.
func (h *uploadHandlerImpl) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.FileName == "" {
		response.BadRequest(w, "file_name is required", nil)
		return
	}
	if len(req.Scans) == 0 {
		response.BadRequest(w, "scans must not be empty", nil)
		return
	}

	rangeStart, err := time.ParseInLocation("2006-01-02", req.RangeStart, h.location)
	if err != nil {
		response.BadRequest(w, "Invalid range_start, expected YYYY-MM-DD", nil)
		return
	}
	rangeEnd, err := time.ParseInLocation("2006-01-02", req.RangeEnd, h.location)
	if err != nil {
		response.BadRequest(w, "Invalid range_end, expected YYYY-MM-DD", nil)
		return
	}
	if rangeEnd.Before(rangeStart) {
		response.HandleError(w, biometric.ErrInvalidDateRange)
		return
	}

	scans := make([]biometric.RawScan, 0, len(req.Scans))
	for i, p := range req.Scans {
		ts, err := h.parseScanTime(p.Timestamp)
		if err != nil {
			slog.Warn("unparseable scan timestamp", "index", i, "value", p.Timestamp)
			response.BadRequest(w, "Invalid scan timestamp", map[string]string{
				"timestamp": p.Timestamp,
			})
			return
		}
		scans = append(scans, biometric.RawScan{Name: p.Name, Timestamp: ts, SiteID: p.SiteID})
	}

	up, err := h.uploadRepo.Create(r.Context(), biometric.Upload{
		FileName:   req.FileName,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.processor.ProcessUpload(r.Context(), up.ID, scans)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Upload reconciled", map[string]interface{}{
		"upload_id": up.ID,
		"summary":   summary,
	})
}

// Get implements UploadHandler.
func (h *uploadHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	up, err := h.uploadRepo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, up.ToResponse())
}

// ListRecords implements UploadHandler. Returns the raw-scan audit rows
// of one upload.
func (h *uploadHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.uploadRepo.GetByID(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.recordRepo.ListByUpload(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	out := make([]biometric.RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToResponse())
	}
	response.Success(w, out)
}
