package handler

import (
	"net/http"

	"github.com/madssf/smart-home/internal/domain"
)

func (h *Handler) getNotificationSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetNotificationSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if settings == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) putNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.NotificationSettings
	if err := readJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if settings.NtfyTopic == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyName)
		return
	}
	if err := h.store.PutNotificationSettings(r.Context(), settings); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
