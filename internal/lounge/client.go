// Package lounge provides the HTTP client for the MK Central lounge ranking
// API.
//
// The lounge API is a public, rate-sensitive upstream: every call goes
// through a token bucket limiter and a bounded wall-clock timeout. Non-2xx
// responses surface as *StatusError so handlers can branch on the upstream
// status without parsing error strings.
package lounge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client is the HTTP client for lounge API endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a lounge HTTP client with rate limiting.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), requestsPerMinute/4+1),
		logger:     logger,
	}
}

// StatusError is a non-2xx response from the lounge API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lounge API returned %d: %s", e.StatusCode, e.Body)
}

// StatusOf extracts the upstream HTTP status from err, or 0 if err is not a
// status error (network failure, timeout, cancellation).
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsTimeout reports whether err is a timeout rather than an upstream
// response. Timeouts are retryable network failures, not client faults.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// get performs a rate-limited GET request against a lounge endpoint and
// returns the raw response body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Info("fetching from lounge API", "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}

	return body, nil
}

// PlayerDetails fetches a player's full lounge record (MMR history, events).
// The response is passed through as raw JSON.
func (c *Client) PlayerDetails(ctx context.Context, name, game string, season int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("game", game)
	params.Set("season", strconv.Itoa(season))
	return c.get(ctx, "/player/details", params)
}

// LeaderboardParams are the filters accepted by the upstream leaderboard
// endpoint. MinMmr/MaxMmr are omitted when nil.
type LeaderboardParams struct {
	Game     string
	Season   int
	Skip     int
	PageSize int
	SortBy   string
	Search   string
	MinMmr   *int
	MaxMmr   *int
}

// Leaderboard fetches one leaderboard page. Player objects are kept as raw
// JSON; only the envelope is decoded.
func (c *Client) Leaderboard(ctx context.Context, p LeaderboardParams) (*LeaderboardPage, error) {
	params := url.Values{}
	params.Set("game", p.Game)
	params.Set("season", strconv.Itoa(p.Season))
	params.Set("skip", strconv.Itoa(p.Skip))
	params.Set("pageSize", strconv.Itoa(p.PageSize))
	if p.SortBy != "" {
		params.Set("sortBy", p.SortBy)
	}
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.MinMmr != nil {
		params.Set("minMmr", strconv.Itoa(*p.MinMmr))
	}
	if p.MaxMmr != nil {
		params.Set("maxMmr", strconv.Itoa(*p.MaxMmr))
	}

	body, err := c.get(ctx, "/player/leaderboard", params)
	if err != nil {
		return nil, err
	}

	var page LeaderboardPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode leaderboard response: %w", err)
	}
	return &page, nil
}

// Table fetches a lounge table (match) by ID.
func (c *Client) Table(ctx context.Context, tableID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("tableId", tableID)
	return c.get(ctx, "/table", params)
}

// PlayerStats fetches global player statistics for a game and season.
func (c *Client) PlayerStats(ctx context.Context, game string, season int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("game", game)
	params.Set("season", strconv.Itoa(season))
	return c.get(ctx, "/player/stats", params)
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
