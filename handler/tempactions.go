package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listTempActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.store.ListTempActions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

func (h *Handler) putTempAction(w http.ResponseWriter, r *http.Request) {
	var action domain.TempAction
	if err := readJSON(r, &action); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	if err := action.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if action.IsExpired(h.now()) {
		writeError(w, http.StatusBadRequest, domain.ErrExpiredTempAction)
		return
	}

	for _, roomID := range action.RoomIDs {
		room, err := h.store.GetRoom(r.Context(), roomID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if room == nil {
			writeError(w, http.StatusBadRequest, errNoSuchRoom)
			return
		}
	}

	if err := h.store.PutTempAction(r.Context(), action); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *Handler) deleteTempAction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.DeleteTempAction(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
