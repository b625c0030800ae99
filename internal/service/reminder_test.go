package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

type stubNotifier struct {
	batches [][]*models.MemberRecord
	err     error
}

func (n *stubNotifier) NotifyProbationComplete(members []*models.MemberRecord) error {
	if n.err != nil {
		return n.err
	}
	n.batches = append(n.batches, members)
	return nil
}

func newTestScanner(t *testing.T, notifier Notifier) (*Scanner, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := NewScanner(store, notifier, time.Hour, 30*24*time.Hour)
	s.now = func() time.Time { return testNow }
	return s, store
}

func seedProbationer(t *testing.T, store storage.Store, username string, joined time.Time, notified bool) {
	t.Helper()
	require.NoError(t, store.PutMember(&models.MemberRecord{
		Username:         username,
		Name:             "Member " + username,
		Rank:             "Neophyte",
		Status:           models.StatusActive,
		JoinedAt:         joined,
		NotifiedOneMonth: notified,
	}))
}

func TestScanNotifiesCompletedProbationOnce(t *testing.T) {
	notifier := &stubNotifier{}
	s, store := newTestScanner(t, notifier)

	seedProbationer(t, store, "vex", testNow.AddDate(0, 0, -31), false)

	require.NoError(t, s.Scan())
	require.Len(t, notifier.batches, 1)
	require.Len(t, notifier.batches[0], 1)
	assert.Equal(t, "vex", notifier.batches[0][0].Username)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.True(t, member.NotifiedOneMonth, "flag persists after the notification")

	// A second tick with no changes stays silent
	require.NoError(t, s.Scan())
	assert.Len(t, notifier.batches, 1)
}

func TestScanSkipsIneligibleMembers(t *testing.T) {
	notifier := &stubNotifier{}
	s, store := newTestScanner(t, notifier)

	// Too recent
	seedProbationer(t, store, "fresh", testNow.AddDate(0, 0, -10), false)
	// Already notified
	seedProbationer(t, store, "done", testNow.AddDate(0, 0, -60), true)
	// Wrong rank
	require.NoError(t, store.PutMember(&models.MemberRecord{
		Username: "dag", Name: "Dag", Rank: "Dagger",
		Status: models.StatusActive, JoinedAt: testNow.AddDate(0, 0, -60),
	}))

	require.NoError(t, s.Scan())
	assert.Empty(t, notifier.batches, "empty batch sends nothing")
}

func TestScanRankMatchIsCaseInsensitive(t *testing.T) {
	notifier := &stubNotifier{}
	s, store := newTestScanner(t, notifier)

	require.NoError(t, store.PutMember(&models.MemberRecord{
		Username: "vex", Name: "Vex", Rank: "neophyte",
		Status: models.StatusActive, JoinedAt: testNow.AddDate(0, 0, -31),
	}))

	require.NoError(t, s.Scan())
	require.Len(t, notifier.batches, 1)
}

func TestScanKeepsFlagOnNotifyFailure(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("channel unavailable")}
	s, store := newTestScanner(t, notifier)

	seedProbationer(t, store, "vex", testNow.AddDate(0, 0, -31), false)

	err := s.Scan()
	require.Error(t, err)

	member, err := store.Member("vex")
	require.NoError(t, err)
	assert.False(t, member.NotifiedOneMonth, "failed sends are retried next tick")

	// Recovery path: the next tick notifies and flags
	notifier.err = nil
	require.NoError(t, s.Scan())
	require.Len(t, notifier.batches, 1)
	member, err = store.Member("vex")
	require.NoError(t, err)
	assert.True(t, member.NotifiedOneMonth)
}

func TestScanBatchesAllEligibleMembers(t *testing.T) {
	notifier := &stubNotifier{}
	s, store := newTestScanner(t, notifier)

	seedProbationer(t, store, "a", testNow.AddDate(0, 0, -45), false)
	seedProbationer(t, store, "b", testNow.AddDate(0, 0, -31), false)

	require.NoError(t, s.Scan())
	require.Len(t, notifier.batches, 1, "one message per tick, not per member")
	assert.Len(t, notifier.batches[0], 2)
}
