// Package handler is the chi-based HTTP surface: CRUD over every
// persisted aggregate, the trigger routes that feed the Work Dispatcher,
// the live-consumption SSE stream, health and metrics. Grounded on the
// teacher's handler/handler.go for the router/middleware/metrics shape,
// generalized from one status endpoint to the full CRUD+trigger surface
// spec.md §6 describes.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/madssf/smart-home/internal/domain"
)

// writeJSON writes a JSON response, matching the teacher's handler.writeJSON.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a {"error": "..."} body, the only shape that crosses
// the HTTP boundary (spec §7: no custom error-code enums).
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// readJSON decodes the request body into v, rejecting unknown fields so
// typos in a client's payload surface as a 400 instead of being silently
// ignored.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// isValidationError reports whether err is one of domain's sentinel
// validation errors (spec §7 "Data validation" kind), which the CRUD
// handlers surface as 400 rather than 500.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmptyName,
		domain.ErrInvalidHost,
		domain.ErrEmptyCredentials,
		domain.ErrEmptyRoomIDs,
		domain.ErrEmptyPlugIDs,
		domain.ErrEmptyDays,
		domain.ErrEmptyWindows,
		domain.ErrEmptyTemps,
		domain.ErrInvalidWindow,
		domain.ErrOverlappingWindow,
		domain.ErrInvalidTempAction,
		domain.ErrExpiredTempAction,
		errOverlappingSchedule,
		errNoSuchRoom,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// writeStoreError maps a store/validation error to the appropriate status
// code, matching spec §7's validation-vs-persistence split.
func writeStoreError(w http.ResponseWriter, err error) {
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}
