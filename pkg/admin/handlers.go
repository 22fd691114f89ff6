package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/snapstub/snapstub/pkg/record"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// ErrorResponse is the JSON shape of all error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the JSON shape of GET /__admin/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

// StopRecordingResponse is the JSON shape of POST /__admin/recordings/stop.
type StopRecordingResponse struct {
	Mappings []*stub.Mapping `json:"mappings"`
	Total    int             `json:"total"`
}

// MappingListResponse is the JSON shape of GET /__admin/mappings.
type MappingListResponse struct {
	Mappings []*stub.Mapping `json:"mappings"`
	Total    int             `json:"total"`
}

// RequestListResponse is the JSON shape of GET /__admin/requests.
type RequestListResponse struct {
	Requests []*traffic.Exchange `json:"requests"`
	Total    int                 `json:"total"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// handleHealth handles GET /__admin/health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: a.Uptime(),
	})
}

// handleStartRecording handles POST /__admin/recordings/start.
func (a *API) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	var spec record.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
		return
	}

	if err := a.recorder.Start(spec); err != nil {
		switch {
		case errors.Is(err, record.ErrInvalidSpec):
			writeError(w, http.StatusUnprocessableEntity, "invalid_spec", err.Error())
		case errors.Is(err, record.ErrAlreadyRecording):
			writeError(w, http.StatusConflict, "already_recording", "A recording session is already in progress")
		default:
			a.logger.Error("start recording failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to start recording")
		}
		return
	}

	writeJSON(w, http.StatusOK, record.StatusResult{Status: record.StatusRecording})
}

// handleStopRecording handles POST /__admin/recordings/stop. Mappings from
// a persisting session are registered in the stub store before returning.
func (a *API) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	mappings, err := a.recorder.Stop()
	if err != nil {
		if errors.Is(err, record.ErrNotRecording) {
			writeError(w, http.StatusBadRequest, "not_recording", "No recording session is in progress")
			return
		}
		a.logger.Error("stop recording failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to stop recording")
		return
	}

	for _, m := range mappings {
		if m.Persist {
			a.stubs.Add(m)
		}
	}

	writeJSON(w, http.StatusOK, StopRecordingResponse{
		Mappings: mappings,
		Total:    len(mappings),
	})
}

// handleRecordingStatus handles GET /__admin/recordings/status.
func (a *API) handleRecordingStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, record.StatusResult{Status: a.recorder.Status()})
}

// handleListMappings handles GET /__admin/mappings. With ?format=yaml the
// stored mappings are rendered as YAML instead of the JSON list envelope.
func (a *API) handleListMappings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "yaml" {
		data, err := a.stubs.ExportYAML()
		if err != nil {
			a.logger.Error("yaml export failed", "error", err)
			writeError(w, http.StatusInternalServerError, "export_error", "Failed to export mappings")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	mappings := a.stubs.List()
	writeJSON(w, http.StatusOK, MappingListResponse{
		Mappings: mappings,
		Total:    len(mappings),
	})
}

// handleGetMapping handles GET /__admin/mappings/{id}.
func (a *API) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	m, err := a.stubs.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Stub mapping not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMapping handles DELETE /__admin/mappings/{id}.
func (a *API) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	if err := a.stubs.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Stub mapping not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteMappings handles DELETE /__admin/mappings.
func (a *API) handleDeleteMappings(w http.ResponseWriter, r *http.Request) {
	deleted := a.stubs.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// handleListRequests handles GET /__admin/requests.
func (a *API) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests := a.log.All()
	total := len(requests)

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(requests) {
			requests = requests[len(requests)-limit:]
		}
	}

	writeJSON(w, http.StatusOK, RequestListResponse{
		Requests: requests,
		Total:    total,
	})
}

// handleClearRequests handles DELETE /__admin/requests.
func (a *API) handleClearRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"deleted": a.log.Clear()})
}
