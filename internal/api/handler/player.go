package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
	"github.com/mklounge/stats-api/internal/validate"
)

// searchParams builds the upstream query for a single-player name search.
func searchParams(name string, season int) lounge.LeaderboardParams {
	return lounge.LeaderboardParams{
		Game:     config.DefaultGame,
		Season:   season,
		PageSize: 50,
		Search:   name,
	}
}

// nameParam extracts and decodes the :name path parameter.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// seasonParam validates the season query parameter, defaulting when absent.
// Season 0 (pre-season) is valid and distinct from absent.
func seasonParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("season")
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return validate.Season(raw)
}

// GetPlayerDetails returns a player's full lounge record.
// @Summary Get player details
// @Description Returns the upstream lounge player record (MMR history, events) for a player name.
// @Tags players
// @Produce json
// @Param name path string true "Player name"
// @Param season query int false "Season number (default 1)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/player/details/{name} [get]
func (h *Handler) GetPlayerDetails(w http.ResponseWriter, r *http.Request) {
	requested := nameParam(r)
	name, err := validate.PlayerName(requested)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := seasonParam(r, 1)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Player details change less often than leaderboard pages.
	ttl := cache.SlowChangingTTLFactor * h.cache.DefaultTTL()
	key := cache.Key(familyPlayerDetails, map[string]string{
		"name":   name,
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

	data, err := h.lounge.PlayerDetails(r.Context(), name, config.DefaultGame, season)
	if err != nil {
		// The 404 message interpolates the name as the caller sent it.
		h.upstreamFail(w, r, familyPlayerDetails, err,
			`No lounge records found for "`+requested+`"`,
			"Failed to retrieve player details")
		return
	}

	h.writeCached(w, r, key, data, ttl)
}

// GetPlayerLeaderboard looks up a single player on the leaderboard by exact
// name. The upstream search endpoint is fuzzy; this handler narrows it to a
// case-insensitive exact match and 404s when none exists, even if the
// upstream returned candidates.
// @Summary Look up a player on the leaderboard
// @Description Returns the single leaderboard entry whose name exactly matches (case-insensitive).
// @Tags players
// @Produce json
// @Param name path string true "Player name"
// @Param season query int false "Season number (default 1)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/player/leaderboard/{name} [get]
func (h *Handler) GetPlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	name, err := validate.PlayerName(nameParam(r))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := seasonParam(r, 1)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ttl := h.cache.DefaultTTL()
	key := cache.Key(familyPlayerLookup, map[string]string{
		"name":   strings.ToLower(name),
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

	page, err := h.lounge.Leaderboard(r.Context(), searchParams(name, season))
	if err != nil {
		h.upstreamFail(w, r, familyPlayerLookup, err,
			"Player not found",
			"Failed to fetch data")
		return
	}

	player, found := page.FindExact(name)
	if !found {
		respond.WriteError(w, http.StatusNotFound, "Player not found")
		return
	}

	h.writeCached(w, r, key, player, ttl)
}
