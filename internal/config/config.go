// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/loungectl.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Game registry — games the lounge upstream currently supports
// --------------------------------------------------------------------------

type GameConfig struct {
	ID            string
	Name          string
	CurrentSeason int
}

var GameRegistry = map[string]GameConfig{
	"mkworld": {ID: "mkworld", Name: "Mario Kart World", CurrentSeason: 1},
}

// DefaultGame is used when a request omits the game parameter.
const DefaultGame = "mkworld"

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS — FRONTEND_URL may be a single origin or a comma-separated list
	FrontendURLs []string

	// Rate limiting (inbound, per client IP)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream lounge API
	LoungeBaseURL           string
	LoungeRequestsPerMinute int
	LoungeTimeout           time.Duration

	// Cache
	CacheEnabled    bool
	CacheMaxEntries int
	CacheDefaultTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 3000)),
		// NODE_ENV is honored for parity with the original deployment.
		Environment: envOr("ENVIRONMENT", envOr("NODE_ENV", "development")),

		FrontendURLs: envList("FRONTEND_URL", nil),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		LoungeBaseURL:           envOr("LOUNGE_BASE_URL", "https://lounge.mkcentral.com/api"),
		LoungeRequestsPerMinute: envInt("LOUNGE_REQUESTS_PER_MINUTE", 120),
		LoungeTimeout:           time.Duration(envInt("LOUNGE_TIMEOUT_SECONDS", 30)) * time.Second,

		CacheEnabled:    envBool("CACHE_ENABLED", true),
		CacheMaxEntries: envInt("CACHE_MAX_ENTRIES", 1000),
		CacheDefaultTTL: time.Duration(envInt("CACHE_DEFAULT_TTL_SECONDS", 60)) * time.Second,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CORSAllowOrigins returns the CORS allow-list. Production restricts to the
// configured frontend origin; development allows any origin.
func (c *Config) CORSAllowOrigins() []string {
	if c.IsProduction() && len(c.FrontendURLs) > 0 {
		return c.FrontendURLs
	}
	return []string{"*"}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
