package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankIndex(t *testing.T) {
	assert.Equal(t, 0, RankIndex("Vanguard Supreme"))
	assert.Equal(t, len(RankOrder)-1, RankIndex("Neophyte"))
	assert.Equal(t, len(RankOrder)-1, RankIndex("neophyte"), "lookup is case-insensitive")
	assert.Equal(t, len(RankOrder), RankIndex("Pirate"), "unknown ranks index past the hierarchy")
}

func TestCompareRanks(t *testing.T) {
	assert.Negative(t, CompareRanks("Phantom Leader", "Dagger"))
	assert.Positive(t, CompareRanks("Neophyte", "Spectre"))
	assert.Zero(t, CompareRanks("dagger", "Dagger"))
	assert.Negative(t, CompareRanks("Neophyte", "Pirate"), "known ranks outrank unknown ones")
}

func TestParseEventType(t *testing.T) {
	for _, known := range EventTypes {
		parsed, err := ParseEventType(known)
		require.NoError(t, err)
		assert.Equal(t, known, parsed)
	}

	parsed, err := ParseEventType("  promote ")
	require.NoError(t, err)
	assert.Equal(t, EventPromote, parsed)

	_, err = ParseEventType("BANISH")
	assert.Error(t, err)
}
