package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-ledger/internal/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func testMember(username string) *models.MemberRecord {
	return &models.MemberRecord{
		Username: username,
		Name:     "Test " + username,
		Rank:     models.DefaultRank,
		Status:   models.StatusActive,
		JoinedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreMemberRoundTrip(t *testing.T) {
	store := newTestStore(t)

	member, err := store.Member("ghost")
	require.NoError(t, err)
	assert.Nil(t, member, "absent member reads as nil")

	require.NoError(t, store.PutMember(testMember("vex")))

	member, err = store.Member("vex")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "Test vex", member.Name)
	assert.Equal(t, models.DefaultRank, member.Rank)

	// Upsert replaces in place
	member.Rank = "Dagger"
	require.NoError(t, store.PutMember(member))
	member, err = store.Member("vex")
	require.NoError(t, err)
	assert.Equal(t, "Dagger", member.Rank)
}

func TestFileStoreRejectsEmptyUsername(t *testing.T) {
	store := newTestStore(t)
	err := store.PutMember(&models.MemberRecord{Name: "nameless"})
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestFileStoreDeleteMember(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PutMember(testMember("vex")))

	require.NoError(t, store.DeleteMember("vex"))
	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.Nil(t, member)

	// Deleting an absent record is a silent no-op
	require.NoError(t, store.DeleteMember("vex"))
}

func TestFileStoreActiveMembers(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PutMember(testMember("beta")))
	require.NoError(t, store.PutMember(testMember("alpha")))

	members, err := store.ActiveMembers()
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alpha", members[0].Username, "listing order is deterministic")
	assert.Equal(t, "beta", members[1].Username)
}

func TestFileStoreLogQuery(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []*models.LogEvent{
		{Type: models.EventJoin, Username: "vex", By: "admin", Timestamp: base},
		{Type: models.EventWarn, Username: "vex", By: "admin", Extra: "spam", Timestamp: base.Add(time.Hour)},
		{Type: models.EventJoin, Username: "nyx", By: "admin", Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		require.NoError(t, store.AppendLog(e))
	}

	all, err := store.Logs(LogQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.EventJoin, all[0].Type, "default order is insertion order")
	assert.Equal(t, "vex", all[0].Username)

	joins, err := store.Logs(LogQuery{Type: models.EventJoin})
	require.NoError(t, err)
	assert.Len(t, joins, 2)

	allFilter, err := store.Logs(LogQuery{Type: "ALL"})
	require.NoError(t, err)
	assert.Len(t, allFilter, 3)

	vex, err := store.Logs(LogQuery{Username: "vex"})
	require.NoError(t, err)
	assert.Len(t, vex, 2)

	newest, err := store.Logs(LogQuery{SortByTimeDesc: true})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "nyx", newest[0].Username)
}

func TestFileStoreLogsSurviveMemberDeletion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PutMember(testMember("vex")))
	require.NoError(t, store.AppendLog(&models.LogEvent{
		Type: models.EventJoin, Username: "vex", By: "admin", Timestamp: time.Now().UTC(),
	}))

	require.NoError(t, store.DeleteMember("vex"))

	logs, err := store.Logs(LogQuery{Username: "vex"})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestFileStoreWithinTx(t *testing.T) {
	store := newTestStore(t)

	err := store.WithinTx(func(tx Store) error {
		if err := tx.AppendLog(&models.LogEvent{
			Type: models.EventJoin, Username: "vex", By: "admin", Timestamp: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.PutMember(testMember("vex"))
	})
	require.NoError(t, err)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.NotNil(t, member)

	logs, err := store.Logs(LogQuery{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.PutMember(testMember("vex")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	member, err := reopened.Member("vex")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "Test vex", member.Name)
	assert.True(t, member.JoinedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
}
