package lounge

import (
	"encoding/json"
	"strings"
)

// LeaderboardPage is the upstream leaderboard envelope. Player objects stay
// raw; the upstream reports the total under "totalPlayers".
type LeaderboardPage struct {
	Data         []json.RawMessage `json:"data"`
	TotalPlayers int               `json:"totalPlayers"`
}

// LeaderboardResponse is the stable contract served to callers. The upstream
// field name "totalPlayers" is exposed as both totalCount and totalPlayers
// for caller compatibility.
type LeaderboardResponse struct {
	Data         []json.RawMessage `json:"data"`
	TotalCount   int               `json:"totalCount"`
	TotalPlayers int               `json:"totalPlayers"`
}

// Normalize reshapes an upstream page into the stable caller contract.
func (p *LeaderboardPage) Normalize() *LeaderboardResponse {
	data := p.Data
	if data == nil {
		data = []json.RawMessage{}
	}
	return &LeaderboardResponse{
		Data:         data,
		TotalCount:   p.TotalPlayers,
		TotalPlayers: p.TotalPlayers,
	}
}

// FindExact narrows the upstream's fuzzy search results to a case-insensitive
// exact name match. Returns the matching player's raw JSON, or false when no
// exact match exists even if the upstream returned candidates.
func (p *LeaderboardPage) FindExact(name string) (json.RawMessage, bool) {
	for _, raw := range p.Data {
		var probe struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		if strings.EqualFold(probe.Name, name) {
			return raw, true
		}
	}
	return nil, false
}

// CompareError is the per-player error slot in a compare response. A failed
// lookup occupies its slot instead of failing the whole batch, letting the
// caller filter valid players from errors.
type CompareError struct {
	Error   bool   `json:"error"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
