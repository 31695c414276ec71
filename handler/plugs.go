package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listPlugs(w http.ResponseWriter, r *http.Request) {
	plugs, err := h.store.ListPlugs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, plugs)
}

func (h *Handler) getPlug(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plug, err := h.store.GetPlug(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if plug == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, plug)
}

// putPlug validates the room reference before writing, the same check
// memstore.Store.PutPlug makes in-process; here it runs in the handler so
// both the Postgres and in-memory store implementations get it uniformly
// (see DESIGN.md's internal/store/postgres entry).
func (h *Handler) putPlug(w http.ResponseWriter, r *http.Request) {
	var plug domain.Plug
	if err := readJSON(r, &plug); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if plug.ID == uuid.Nil {
		plug.ID = uuid.New()
	}
	if err := plug.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	room, err := h.store.GetRoom(r.Context(), plug.RoomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if room == nil {
		writeError(w, http.StatusBadRequest, errNoSuchRoom)
		return
	}

	if err := h.store.PutPlug(r.Context(), plug); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plug)
}

func (h *Handler) deletePlug(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.DeletePlug(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
