package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/validate"
)

// GetTable returns a lounge table (match result) by numeric ID.
// @Summary Get table by ID
// @Description Returns the upstream lounge table record for a table ID.
// @Tags tables
// @Produce json
// @Param tableid path string true "Table ID (numeric)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/table/{tableid} [get]
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	tableID, err := validate.TableID(chi.URLParam(r, "tableid"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ttl := h.cache.DefaultTTL()
	key := cache.Key(familyTable, map[string]string{"id": tableID})

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := h.lounge.Table(r.Context(), tableID)
	if err != nil {
		h.upstreamFail(w, r, familyTable, err,
			"No lounge table found for that ID",
			"Failed to fetch table")
		return
	}

	h.writeCached(w, r, key, data, ttl)
}
