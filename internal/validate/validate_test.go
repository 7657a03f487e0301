package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var games = map[string]struct{}{"mkworld": {}}

func TestPlayerName_StripsControlChars(t *testing.T) {
	t.Parallel()

	got, err := PlayerName("  Bob\x01\x02  ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got)
}

func TestPlayerName_Empty(t *testing.T) {
	t.Parallel()

	_, err := PlayerName("")
	assert.Error(t, err)
	_, err = PlayerName("   ")
	assert.Error(t, err)
}

func TestPlayerName_TooLong(t *testing.T) {
	t.Parallel()

	_, err := PlayerName(strings.Repeat("x", MaxPlayerNameLength+1))
	assert.Error(t, err)

	got, err := PlayerName(strings.Repeat("x", MaxPlayerNameLength))
	require.NoError(t, err)
	assert.Len(t, got, MaxPlayerNameLength)
}

func TestPlayerName_DeleteChar(t *testing.T) {
	t.Parallel()

	got, err := PlayerName("Bob\x7fcat")
	require.NoError(t, err)
	assert.Equal(t, "Bobcat", got)
}

func TestSeason_ZeroIsValid(t *testing.T) {
	t.Parallel()

	// Season 0 is the pre-season, not "missing".
	got, err := Season("0")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestSeason_Bounds(t *testing.T) {
	t.Parallel()

	got, err := Season("100")
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	_, err = Season("101")
	assert.Error(t, err)
	_, err = Season("-1")
	assert.Error(t, err)
}

func TestSeason_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Season("")
	assert.Error(t, err)
	_, err = Season("abc")
	assert.Error(t, err)
	_, err = Season("1.5")
	assert.Error(t, err)
}

func TestGame_AllowSet(t *testing.T) {
	t.Parallel()

	got, err := Game("  MKWorld ", games)
	require.NoError(t, err)
	assert.Equal(t, "mkworld", got)

	_, err = Game("mk8dx", games)
	assert.Error(t, err)
	_, err = Game("", games)
	assert.Error(t, err)
}

func TestTableID(t *testing.T) {
	t.Parallel()

	got, err := TableID("12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", got)

	for _, bad := range []string{"", "abc", "12a", "-1", "1.5", "12345678901", "1; DROP"} {
		_, err := TableID(bad)
		assert.Error(t, err, "table ID %q should be rejected", bad)
	}
}

func TestSearch_Sanitizes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bob", Search("  bob\x00  "))
	assert.Equal(t, "", Search("   "))
	assert.Equal(t, "", Search("\x01\x02"))

	long := Search(strings.Repeat("a", MaxSearchLength+20))
	assert.Len(t, long, MaxSearchLength)
}
