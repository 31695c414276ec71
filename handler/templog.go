package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// temperatureLogsForRoom answers `GET /temperature_logs/{room_id}?since=<RFC3339>`
// (spec §6's `/temperature_logs/*` surface); since defaults to 24h ago.
func (h *Handler) temperatureLogsForRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "room_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	since := h.now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		since = parsed
	}

	logs, err := h.store.TemperatureLogsForRoom(r.Context(), roomID, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
