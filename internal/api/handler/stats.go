package handler

import (
	"net/http"
	"strconv"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/validate"
)

// gameAllowSet is the explicit allow-set of game identifiers; anything else
// is rejected rather than passed upstream blindly.
var gameAllowSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(config.GameRegistry))
	for id := range config.GameRegistry {
		set[id] = struct{}{}
	}
	return set
}()

// GetPlayerStats returns global player statistics for a game and season.
// @Summary Get global player stats
// @Description Returns upstream aggregate statistics (player counts, MMR distribution) for a game and season.
// @Tags stats
// @Produce json
// @Param season query int false "Season number (default 1)"
// @Param game query string false "Game identifier (default mkworld)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/player/stats [get]
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	season, err := seasonParam(r, 1)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	game := r.URL.Query().Get("game")
	if game == "" {
		game = config.DefaultGame
	}
	game, err = validate.Game(game, gameAllowSet)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Aggregate stats move slowly; cache them longer.
	ttl := cache.SlowChangingTTLFactor * h.cache.DefaultTTL()
	key := cache.Key(familyStats, map[string]string{
		"game":   game,
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

	data, err := h.lounge.PlayerStats(r.Context(), game, season)
	if err != nil {
		h.upstreamFail(w, r, familyStats, err,
			"No stats found",
			"Failed to fetch player stats")
		return
	}

	h.writeCached(w, r, key, data, ttl)
}
