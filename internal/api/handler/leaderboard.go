package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
	"github.com/mklounge/stats-api/internal/validate"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	defaultSortBy   = "Mmr"
)

// GetLeaderboard returns a leaderboard page with pagination and filters.
// The upstream's totalPlayers field is exposed as both totalCount and
// totalPlayers for caller compatibility.
// @Summary Get leaderboard
// @Description Returns a filtered, paginated leaderboard page normalized to {data, totalCount, totalPlayers}.
// @Tags leaderboard
// @Produce json
// @Param skip query int false "Entries to skip (default 0)"
// @Param pageSize query int false "Page size, capped at 100 (default 50)"
// @Param minMmr query int false "Minimum MMR filter"
// @Param maxMmr query int false "Maximum MMR filter"
// @Param search query string false "Player name search"
// @Param sortBy query string false "Sort field (default Mmr)"
// @Param season query int false "Season number (default 1)"
// @Success 200 {object} lounge.LeaderboardResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	season, err := seasonParam(r, 1)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	skip := intQuery(q.Get("skip"), 0)
	pageSize := intQuery(q.Get("pageSize"), defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortBy = validate.Search(sortBy)

	params := lounge.LeaderboardParams{
		Game:     config.DefaultGame,
		Season:   season,
		Skip:     skip,
		PageSize: pageSize,
		SortBy:   sortBy,
	}
	keyParams := map[string]string{
		"skip":     strconv.Itoa(skip),
		"pageSize": strconv.Itoa(pageSize),
		"sortBy":   sortBy,
		"season":   strconv.Itoa(season),
	}

	if v := q.Get("minMmr"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MinMmr = &n
			keyParams["minMmr"] = strconv.Itoa(n)
		}
	}
	if v := q.Get("maxMmr"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MaxMmr = &n
			keyParams["maxMmr"] = strconv.Itoa(n)
		}
	}
	// Empty-after-sanitize means no search filter, not an error.
	if search := validate.Search(q.Get("search")); search != "" {
		params.Search = search
		keyParams["search"] = search
	}

	ttl := h.cache.DefaultTTL()
	key := cache.Key(familyLeaderboard, keyParams)

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	page, err := h.lounge.Leaderboard(r.Context(), params)
	if err != nil {
		h.upstreamFail(w, r, familyLeaderboard, err,
			"Leaderboard not found",
			"Failed to fetch leaderboard")
		return
	}

	body, err := json.Marshal(page.Normalize())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}

	h.logger.Info("leaderboard page served",
		"players", len(page.Data),
		"totalCount", page.TotalPlayers)

	h.writeCached(w, r, key, body, ttl)
}

// intQuery parses an optional integer query value, falling back on absence
// or garbage.
func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return fallback
}
