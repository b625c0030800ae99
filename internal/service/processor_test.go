package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

var testNow = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

func newTestProcessor(t *testing.T) (*Processor, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := NewProcessor(store)
	p.now = func() time.Time { return testNow }
	return p, store
}

func TestProcessJoinCreatesMember(t *testing.T) {
	p, store := newTestProcessor(t)

	event, err := p.Process("join", EventPayload{
		Name: "Vex", Username: "vex", By: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, models.EventJoin, event.Type)
	assert.Equal(t, "vex", event.Username)
	assert.Equal(t, "admin", event.By)
	assert.Equal(t, testNow, event.Timestamp)
	require.NotNil(t, event.JoinedAt)
	assert.Equal(t, testNow, *event.JoinedAt)
	require.NotNil(t, event.Warnings)
	assert.Zero(t, *event.Warnings)

	member, err := store.Member("vex")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, models.StatusActive, member.Status)
	assert.Equal(t, models.DefaultRank, member.Rank)
	assert.Zero(t, member.Warnings)
	assert.Equal(t, testNow, member.JoinedAt)

	logs, err := store.Logs(storage.LogQuery{Type: models.EventJoin})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProcessJoinHonorsExplicitRankAndTimestamp(t *testing.T) {
	p, store := newTestProcessor(t)

	ts := "2025-06-01T09:30:00Z"
	_, err := p.Process("JOIN", EventPayload{
		Name: "Vex", Username: "vex", By: "admin",
		Rank: "  Dagger  ", Timestamp: ts,
	})
	require.NoError(t, err)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.Equal(t, "Dagger", member.Rank, "rank is trimmed")
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), member.JoinedAt)
}

func TestProcessJoinIsIdempotentOnState(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process("JOIN", EventPayload{
		Name: "Vex", Username: "vex", By: "admin", Rank: "Dagger",
		Timestamp: "2025-06-01T09:30:00Z",
	})
	require.NoError(t, err)

	// Repeat with different rank and timestamp
	_, err = p.Process("JOIN", EventPayload{
		Name: "Vex", Username: "vex", By: "admin", Rank: "Spectre",
	})
	require.NoError(t, err)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.Equal(t, "Dagger", member.Rank, "existing record is untouched")
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), member.JoinedAt)

	logs, err := store.Logs(storage.LogQuery{Type: models.EventJoin})
	require.NoError(t, err)
	assert.Len(t, logs, 2, "every join is logged, even repeats")
}

func TestProcessPromoteRecordsTransition(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process("JOIN", EventPayload{
		Name: "Vex", Username: "u1", By: "admin", Rank: "Neophyte",
	})
	require.NoError(t, err)

	event, err := p.Process("PROMOTE", EventPayload{
		Username: "u1", By: "admin", To: "Dagger",
	})
	require.NoError(t, err)

	assert.Equal(t, "Neophyte", event.FromRank, "from is the rank before the call")
	assert.Equal(t, "Dagger", event.ToRank)

	member, err := store.Member("u1")
	require.NoError(t, err)
	assert.Equal(t, "Dagger", member.Rank)
}

func TestProcessPromoteExplicitFromOverride(t *testing.T) {
	p, _ := newTestProcessor(t)

	event, err := p.Process("PROMOTE", EventPayload{
		Username: "u1", By: "admin", From: " Vantage ", To: "Revenant",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vantage", event.FromRank)
}

func TestProcessPromoteCreatesAbsentMember(t *testing.T) {
	p, store := newTestProcessor(t)

	event, err := p.Process("PROMOTE", EventPayload{
		Name: "Nyx", Username: "nyx", By: "admin", To: "Spectre",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRank, event.FromRank, "absent member defaults from")

	member, err := store.Member("nyx")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "Spectre", member.Rank)
	assert.Equal(t, testNow, member.JoinedAt)
}

func TestProcessDemoteUpdatesRank(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process("JOIN", EventPayload{Username: "u1", By: "admin", Rank: "Dagger"})
	require.NoError(t, err)

	event, err := p.Process("DEMOTE", EventPayload{
		Username: "u1", By: "admin", To: "Neophyte", Extra: "inactivity",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dagger", event.FromRank)
	assert.Equal(t, "inactivity", event.Extra)

	member, err := store.Member("u1")
	require.NoError(t, err)
	assert.Equal(t, "Neophyte", member.Rank)
}

func TestProcessKickAndLeftDeleteMember(t *testing.T) {
	for _, etype := range []string{"KICK", "LEFT"} {
		t.Run(etype, func(t *testing.T) {
			p, store := newTestProcessor(t)
			_, err := p.Process("JOIN", EventPayload{Username: "vex", By: "admin"})
			require.NoError(t, err)

			_, err = p.Process(etype, EventPayload{Username: "vex", By: "admin"})
			require.NoError(t, err)

			member, err := store.Member("vex")
			require.NoError(t, err)
			assert.Nil(t, member)
		})
	}
}

func TestProcessKickAbsentMemberStillLogs(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process("KICK", EventPayload{Username: "ghost", By: "admin"})
	require.NoError(t, err)

	logs, err := store.Logs(storage.LogQuery{Type: models.EventKick})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProcessWarnIsLogOnly(t *testing.T) {
	p, store := newTestProcessor(t)

	_, err := p.Process("JOIN", EventPayload{Username: "vex", By: "admin"})
	require.NoError(t, err)

	event, err := p.Process("WARN", EventPayload{
		Username: "vex", By: "admin", Extra: "spam",
	})
	require.NoError(t, err)
	assert.Equal(t, "spam", event.Extra)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.Zero(t, member.Warnings, "warn does not mutate the record")
}

func TestProcessValidation(t *testing.T) {
	tests := []struct {
		name    string
		etype   string
		payload EventPayload
	}{
		{"join missing by", "JOIN", EventPayload{Username: "vex"}},
		{"kick missing username", "KICK", EventPayload{By: "admin"}},
		{"promote missing to", "PROMOTE", EventPayload{Username: "vex", By: "admin"}},
		{"warn missing reason", "WARN", EventPayload{Username: "vex", By: "admin"}},
		{"blacklist missing reason", "BLACKLIST", EventPayload{Username: "vex", By: "admin"}},
		{"blank username", "JOIN", EventPayload{Username: "   ", By: "admin"}},
		{"unknown type", "BANISH", EventPayload{Username: "vex", By: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, store := newTestProcessor(t)
			_, err := p.Process(tt.etype, tt.payload)
			assert.ErrorIs(t, err, ErrValidation)

			logs, err := store.Logs(storage.LogQuery{})
			require.NoError(t, err)
			assert.Empty(t, logs, "rejected events write nothing")
		})
	}
}

func TestProcessFallsBackOnMalformedTimestamp(t *testing.T) {
	p, _ := newTestProcessor(t)

	event, err := p.Process("JOIN", EventPayload{
		Username: "vex", By: "admin", Timestamp: "Unknown date",
	})
	require.NoError(t, err)
	assert.Equal(t, testNow, event.Timestamp)
}
