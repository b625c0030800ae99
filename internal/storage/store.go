package storage

import (
	"errors"

	"guild-ledger/internal/models"
)

// ErrEmptyUsername is returned when a member record is written without
// a username.
var ErrEmptyUsername = errors.New("member username is required")

// LogQuery narrows and orders a log listing. The zero value returns
// every event in insertion order.
type LogQuery struct {
	// Type filters by event type; empty or "ALL" matches everything.
	Type string
	// Username filters by the exact member handle.
	Username string
	// SortByTimeDesc orders newest-first by event timestamp instead of
	// insertion order.
	SortByTimeDesc bool
}

// matchesType reports whether the query's type filter accepts t.
func (q LogQuery) matchesType(t string) bool {
	return q.Type == "" || q.Type == "ALL" || q.Type == t
}

// Store is the persistence adapter for the two record collections:
// the mutable members table and the append-only event log. The core
// never depends on which backend is active.
type Store interface {
	// Member returns the record for a username, or nil when absent.
	Member(username string) (*models.MemberRecord, error)
	// PutMember creates or replaces a member record.
	PutMember(member *models.MemberRecord) error
	// DeleteMember removes a member record; absent records are a no-op.
	DeleteMember(username string) error
	// ActiveMembers returns all records with active status.
	ActiveMembers() ([]*models.MemberRecord, error)

	// AppendLog adds one event to the log. Events are never updated
	// or deleted.
	AppendLog(event *models.LogEvent) error
	// Logs returns events matching the query.
	Logs(query LogQuery) ([]*models.LogEvent, error)

	// WithinTx runs fn against a transactional view of the store.
	// On the relational backend all writes commit or roll back
	// together; the file backend serializes fn under its lock.
	WithinTx(fn func(Store) error) error

	Close() error
}
