package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// listPrices answers `GET /prices/?from=<RFC3339>` (spec §6's `/prices/*`
// CRUD surface); from defaults to the current hour.
func (h *Handler) listPrices(w http.ResponseWriter, r *http.Request) {
	from := h.now().Truncate(time.Hour)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		from = parsed
	}
	prices, err := h.store.PricesFrom(r.Context(), from)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

// priceAt answers `GET /prices/at/{hour}`, hour being an RFC3339 timestamp
// truncated to the hour server-side, matching store.PriceStore.PriceAt.
func (h *Handler) priceAt(w http.ResponseWriter, r *http.Request) {
	hour, err := time.Parse(time.RFC3339, chi.URLParam(r, "hour"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	price, err := h.store.PriceAt(r.Context(), hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if price == nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, price)
}
