package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_EmptyParams(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "leaderboard", Key("leaderboard", nil))
	assert.Equal(t, "leaderboard", Key("leaderboard", map[string]string{}))
}

func TestKey_SortsParams(t *testing.T) {
	t.Parallel()

	key := Key("leaderboard", map[string]string{
		"skip":     "0",
		"pageSize": "50",
		"season":   "1",
	})
	assert.Equal(t, "leaderboard|pageSize:50|season:1|skip:0", key)
}

func TestKey_OrderIndependence(t *testing.T) {
	t.Parallel()

	a := Key("p", map[string]string{"a": "1", "b": "2"})
	b := Key("p", map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, a, b)
}

func TestFamilyPredicate(t *testing.T) {
	t.Parallel()

	pred := FamilyPredicate("player-details")
	assert.True(t, pred("player-details"))
	assert.True(t, pred("player-details|name:Bob"))
	assert.False(t, pred("player-detailsX"))
	assert.False(t, pred("leaderboard|name:Bob"))
}
