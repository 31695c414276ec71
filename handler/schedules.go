package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.ListSchedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sched, err := h.store.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if sched == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// putSchedule validates the non-overlap invariant (spec §3 invariant 1)
// against every other stored schedule before writing, the same check
// memstore.Store.PutSchedule makes in-process; see DESIGN.md's
// internal/store/postgres entry for why this lives here instead of in
// every store implementation.
func (h *Handler) putSchedule(w http.ResponseWriter, r *http.Request) {
	var sched domain.Schedule
	if err := readJSON(r, &sched); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if sched.ID == uuid.Nil {
		sched.ID = uuid.New()
	}
	if err := sched.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	for _, roomID := range sched.RoomIDs {
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

	existing, err := h.store.ListSchedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, other := range existing {
		if other.ID == sched.ID {
			continue
		}
		if schedulesConflict(other, sched) {
			writeError(w, http.StatusBadRequest, errOverlappingSchedule)
			return
		}
	}

	if err := h.store.PutSchedule(r.Context(), sched); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (h *Handler) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.DeleteSchedule(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// schedulesConflict reports whether a and b share a room, a weekday, and
// an overlapping time window — the same three-way check
// memstore.Store.PutSchedule performs in-process.
func schedulesConflict(a, b domain.Schedule) bool {
	if !schedulesShareRoom(a, b) {
		return false
	}
	if !schedulesShareDay(a, b) {
		return false
	}
	for _, wa := range a.Windows {
		for _, wb := range b.Windows {
			if wa.Overlaps(wb) {
				return true
			}
		}
	}
	return false
}

func schedulesShareRoom(a, b domain.Schedule) bool {
	for _, x := range a.RoomIDs {
		for _, y := range b.RoomIDs {
			if x == y {
				return true
			}
		}
	}
	return false
}

func schedulesShareDay(a, b domain.Schedule) bool {
	for d := range a.Days {
		if _, ok := b.Days[d]; ok {
			return true
		}
	}
	return false
}
