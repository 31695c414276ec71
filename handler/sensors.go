package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listTempSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.store.ListTempSensors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sensors)
}

func (h *Handler) putTempSensor(w http.ResponseWriter, r *http.Request) {
	var sensor domain.TempSensor
	if err := readJSON(r, &sensor); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sensor.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	room, err := h.store.GetRoom(r.Context(), sensor.RoomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if room == nil {
		writeError(w, http.StatusBadRequest, errNoSuchRoom)
		return
	}

	if err := h.store.PutTempSensor(r.Context(), sensor); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensor)
}

func (h *Handler) deleteTempSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTempSensor(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
