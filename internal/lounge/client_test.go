package lounge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 6000, 5*time.Second, nil)
}

func TestPlayerDetails_Passthrough(t *testing.T) {
	t.Parallel()

	body := `{"name":"Bob","mmr":8123,"mmrChanges":[]}`
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player/details", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Bob", q.Get("name"))
		assert.Equal(t, "mkworld", q.Get("game"))
		assert.Equal(t, "2", q.Get("season"))
		w.Write([]byte(body))
	})

	data, err := c.PlayerDetails(context.Background(), "Bob", "mkworld", 2)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(data))
}

func TestGet_StatusError(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such player", http.StatusNotFound)
	})

	_, err := c.PlayerDetails(context.Background(), "Nobody", "mkworld", 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.False(t, IsTimeout(err))
}

func TestGet_UpstreamServerError(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Table(context.Background(), "42")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestGet_Timeout(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL, 6000, 20*time.Millisecond, nil)

	_, err := c.PlayerStats(context.Background(), "mkworld", 1)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, 0, StatusOf(err), "a timeout carries no upstream status")
}

func TestGet_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.PlayerDetails(ctx, "Bob", "mkworld", 1)
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestLeaderboard_ParamsAndDecode(t *testing.T) {
	t.Parallel()

	minMmr := 2000
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player/leaderboard", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("skip"))
		assert.Equal(t, "50", q.Get("pageSize"))
		assert.Equal(t, "Mmr", q.Get("sortBy"))
		assert.Equal(t, "2000", q.Get("minMmr"))
		assert.False(t, q.Has("maxMmr"))
		assert.False(t, q.Has("search"))
		w.Write([]byte(`{"data":[{"name":"Bob","mmr":8123}],"totalPlayers":42}`))
	})

	page, err := c.Leaderboard(context.Background(), LeaderboardParams{
		Game:     "mkworld",
		Season:   1,
		Skip:     10,
		PageSize: 50,
		SortBy:   "Mmr",
		MinMmr:   &minMmr,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, page.TotalPlayers)
	require.Len(t, page.Data, 1)
}

func TestLeaderboardPage_Normalize(t *testing.T) {
	t.Parallel()

	page := &LeaderboardPage{
		Data:         []json.RawMessage{json.RawMessage(`{"name":"Bob"}`)},
		TotalPlayers: 42,
	}
	norm := page.Normalize()
	assert.Equal(t, 42, norm.TotalCount)
	assert.Equal(t, 42, norm.TotalPlayers)
	assert.Len(t, norm.Data, 1)
}

func TestLeaderboardPage_NormalizeEmpty(t *testing.T) {
	t.Parallel()

	norm := (&LeaderboardPage{}).Normalize()
	require.NotNil(t, norm.Data, "data must serialize as [], not null")

	body, err := json.Marshal(norm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"totalCount":0,"totalPlayers":0}`, string(body))
}

func TestLeaderboardPage_FindExact(t *testing.T) {
	t.Parallel()

	page := &LeaderboardPage{Data: []json.RawMessage{
		json.RawMessage(`{"name":"Bobby","mmr":1}`),
		json.RawMessage(`{"name":"BOB","mmr":2}`),
	}}

	raw, found := page.FindExact("bob")
	require.True(t, found, "match is case-insensitive")
	assert.Contains(t, string(raw), `"mmr":2`)

	// The upstream search is fuzzy; a substring candidate is not a match.
	_, found = page.FindExact("Bo")
	assert.False(t, found)
}
