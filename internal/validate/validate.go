// Package validate gates every untrusted request input before it reaches
// cache-key derivation or upstream calls. Sanitized outputs are safe to embed
// in cache keys and URL-encoded upstream query parameters.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxPlayerNameLength = 50
	MaxSearchLength     = 100
	MaxSeason           = 100
)

var tableIDPattern = regexp.MustCompile(`^\d{1,10}$`)

// PlayerName validates and sanitizes a player name. The trimmed value must be
// non-empty and at most MaxPlayerNameLength characters; ASCII control
// characters are stripped so the name cannot corrupt cache keys or log lines.
func PlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("player name is required")
	}
	if len([]rune(trimmed)) > MaxPlayerNameLength {
		return "", fmt.Errorf("player name cannot exceed %d characters", MaxPlayerNameLength)
	}
	return stripControlChars(trimmed), nil
}

// Season validates a season number. Season 0 is the pre-season and is valid;
// an empty value is an error (callers apply their own default before calling).
func Season(season string) (int, error) {
	trimmed := strings.TrimSpace(season)
	if trimmed == "" {
		return 0, fmt.Errorf("season is required")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("season must be an integer")
	}
	if n < 0 || n > MaxSeason {
		return 0, fmt.Errorf("season must be between 0 and %d", MaxSeason)
	}
	return n, nil
}

// Game validates a game identifier against an explicit allow-set rather than
// passing unknown games upstream blindly.
func Game(game string, allowed map[string]struct{}) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(game))
	if normalized == "" {
		return "", fmt.Errorf("game is required")
	}
	if _, ok := allowed[normalized]; !ok {
		return "", fmt.Errorf("unsupported game %q", normalized)
	}
	return normalized, nil
}

// TableID validates a table identifier: numeric-only, bounded length, so it
// cannot inject path or query content into the upstream table-lookup URL.
func TableID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if !tableIDPattern.MatchString(trimmed) {
		return "", fmt.Errorf("table ID must be 1-10 digits")
	}
	return trimmed, nil
}

// Search sanitizes a leaderboard search term: trim, truncate to
// MaxSearchLength, strip control characters. An empty result means "no search
// filter", not an error.
func Search(term string) string {
	trimmed := strings.TrimSpace(term)
	if runes := []rune(trimmed); len(runes) > MaxSearchLength {
		trimmed = string(runes[:MaxSearchLength])
	}
	return stripControlChars(trimmed)
}

// stripControlChars removes ASCII control characters (0x00-0x1F, 0x7F).
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
