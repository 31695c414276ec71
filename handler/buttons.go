package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listButtons(w http.ResponseWriter, r *http.Request) {
	buttons, err := h.store.ListButtons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, buttons)
}

func (h *Handler) getButton(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	button, err := h.store.GetButton(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if button == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, button)
}

func (h *Handler) putButton(w http.ResponseWriter, r *http.Request) {
	var button domain.Button
	if err := readJSON(r, &button); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if button.ID == uuid.Nil {
		button.ID = uuid.New()
	}
	if err := button.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	for _, plugID := range button.PlugIDs {
		plug, err := h.store.GetPlug(r.Context(), plugID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if plug == nil {
			writeError(w, http.StatusBadRequest, errNoSuchPlug)
			return
		}
	}
	if err := h.store.PutButton(r.Context(), button); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, button)
}

func (h *Handler) deleteButton(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.DeleteButton(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
