package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.store.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	room, err := h.store.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if room == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handler) putRoom(w http.ResponseWriter, r *http.Request) {
	var room domain.Room
	if err := readJSON(r, &room); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if err := room.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.PutRoom(r.Context(), room); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.DeleteRoom(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
