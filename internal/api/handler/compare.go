package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
	"github.com/mklounge/stats-api/internal/validate"
)

const maxCompareNames = 4

// GetComparePlayers compares 1-4 players side by side. Upstream detail calls
// run concurrently, one per name, and all are awaited: a failed lookup fills
// its slot with {error:true,name,message} instead of failing the batch, so
// the caller can filter valid players from errors. Duplicate names issue
// duplicate upstream calls; the caller owns de-duplication.
// @Summary Compare multiple players
// @Description Returns an array with one entry per requested name: the upstream player record, or a per-player error object.
// @Tags players
// @Produce json
// @Param names query string true "1-4 comma-separated player names"
// @Param season query int false "Season number (default 1)"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/players/compare [get]
func (h *Handler) GetComparePlayers(w http.ResponseWriter, r *http.Request) {
	namesParam := r.URL.Query().Get("names")
	var names []string
	if namesParam != "" {
		names = strings.Split(namesParam, ",")
	}
	if len(names) == 0 || len(names) > maxCompareNames {
		respond.WriteErrorf(w, http.StatusBadRequest,
			"Please provide 1-%d player names separated by commas", maxCompareNames)
		return
	}

	sanitized := make([]string, 0, len(names))
	for _, name := range names {
		clean, err := validate.PlayerName(name)
		if err != nil {
			respond.WriteErrorf(w, http.StatusBadRequest, "Invalid player name: %s", err.Error())
			return
		}
		sanitized = append(sanitized, clean)
	}

	season, err := seasonParam(r, 1)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Key on the sorted name list so "a,b" and "b,a" collide.
	sortedNames := append([]string(nil), sanitized...)
	sort.Strings(sortedNames)
	ttl := h.cache.DefaultTTL()
	key := cache.Key(familyCompare, map[string]string{
		"names":  strings.Join(sortedNames, ","),
		"season": strconv.Itoa(season),
	})

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	ctx := r.Context()
	results := iter.Map(sanitized, func(name *string) json.RawMessage {
		data, err := h.lounge.PlayerDetails(ctx, *name, config.DefaultGame, season)
		if err != nil {
			msg := "Player not found"
			if !lounge.IsNotFound(err) {
				msg = "Failed to retrieve player details"
			}
			slot, _ := json.Marshal(lounge.CompareError{
				Error:   true,
				Name:    *name,
				Message: msg,
			})
			return slot
		}
		return data
	})

	body, err := json.Marshal(results)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "Failed to fetch comparison data")
		return
	}

	// writeCached skips the store when the request was cancelled mid-flight,
	// so a partial result set never lands in the cache.
	h.writeCached(w, r, key, body, ttl)
}
