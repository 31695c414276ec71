package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/dispatcher"
	"github.com/madssf/smart-home/internal/domain"
)

// triggerRefresh answers `GET /trigger_refresh` (spec §6): enqueues an
// immediate control pass.
func (h *Handler) triggerRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dispatcher.Enqueue(r.Context(), dispatcher.Refresh()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// reportTemp answers `GET /report_ht/{room}?temp=<f64>` (spec §6): enqueues
// a new temperature reading for the room.
func (h *Handler) reportTemp(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "room"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	temp, err := strconv.ParseFloat(r.URL.Query().Get("temp"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("temp query parameter must be a number"))
		return
	}
	if err := h.dispatcher.EnqueueTemp(r.Context(), roomID, temp); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// triggerButton answers `GET /trigger_button/{button_id}/{on|off}` (spec
// §6): enqueues a button press at retry attempt 1.
func (h *Handler) triggerButton(w http.ResponseWriter, r *http.Request) {
	buttonID, err := uuid.Parse(chi.URLParam(r, "button_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var action domain.Action
	switch chi.URLParam(r, "action") {
	case "on":
		action = domain.On
	case "off":
		action = domain.Off
	default:
		writeError(w, http.StatusBadRequest, errors.New("action must be 'on' or 'off'"))
		return
	}

	if err := h.dispatcher.Enqueue(r.Context(), dispatcher.Button(buttonID, action, 1)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
