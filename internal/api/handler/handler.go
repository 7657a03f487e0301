// Package handler provides HTTP handlers for all API endpoints.
// Handlers compose validation, cache lookup, and the lounge upstream client;
// upstream payloads are passed through as raw JSON bytes.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mklounge/stats-api/internal/api/respond"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
)

// Cache key family prefixes. Every key for an endpoint starts with its
// family prefix so one upstream failure can invalidate the whole family.
const (
	familyPlayerDetails = "player-details"
	familyPlayerLookup  = "player-lookup"
	familyCompare       = "players-compare"
	familyLeaderboard   = "leaderboard"
	familyTable         = "table"
	familyStats         = "player-stats"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	cache  *cache.Cache
	lounge *lounge.Client
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(c *cache.Cache, client *lounge.Client, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cache:  c,
		lounge: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Lounge Stats API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys, capacity).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeCached stores a fresh upstream result and serves it. If the client
// cancelled while the fetch was in flight, nothing is cached and nothing is
// written: a request nobody is waiting for must not populate the cache.
func (h *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, data []byte, ttl time.Duration) {
	if r.Context().Err() != nil {
		return
	}
	etag := h.cache.Set(key, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// upstreamFail finishes a request whose upstream call failed. A 404 maps to
// notFoundMsg without touching the cache; any other failure invalidates the
// endpoint's key family and responds with the upstream status when one
// exists, else 500. Response bodies never echo upstream internals.
func (h *Handler) upstreamFail(w http.ResponseWriter, r *http.Request, family string, err error, notFoundMsg, genericMsg string) {
	if r.Context().Err() != nil {
		// Client went away; nothing to respond to and nothing was cached.
		return
	}
	if lounge.IsNotFound(err) {
		respond.WriteError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	removed := h.cache.Invalidate(cache.FamilyPredicate(family))
	h.logger.Warn("upstream failure, invalidated cache family",
		"family", family,
		"removed", removed,
		"timeout", lounge.IsTimeout(err),
		"error", err)
	if status := lounge.StatusOf(err); status != 0 {
		respond.WriteError(w, status, genericMsg)
		return
	}
	respond.WriteError(w, http.StatusInternalServerError, genericMsg)
}
