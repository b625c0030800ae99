package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"guild-ledger/internal/models"

	"github.com/bytedance/sonic"
)

const (
	membersFile = "members.json"
	logsFile    = "logs.json"
)

// fileStore implements Store on two flat JSON files: a members map
// keyed by username and a logs array. Files are re-read on every
// operation and all access is serialized under one mutex.
type fileStore struct {
	mu      sync.Mutex
	dataDir string
}

// NewFileStore creates a file-backed store rooted at dataDir.
func NewFileStore(dataDir string) (Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileStore{dataDir: dataDir}, nil
}

func (s *fileStore) readMembers() (map[string]*models.MemberRecord, error) {
	members := make(map[string]*models.MemberRecord)
	if err := s.readJSON(membersFile, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *fileStore) readLogs() ([]*models.LogEvent, error) {
	var logs []*models.LogEvent
	if err := s.readJSON(logsFile, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// readJSON loads a data file into out; a missing file leaves out at
// its fallback value.
func (s *fileStore) readJSON(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// writeJSON writes a data file through a temp file and rename so a
// crash mid-write never truncates the collection.
func (s *fileStore) writeJSON(name string, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *fileStore) member(username string) (*models.MemberRecord, error) {
	members, err := s.readMembers()
	if err != nil {
		return nil, err
	}
	return members[username], nil
}

func (s *fileStore) putMember(member *models.MemberRecord) error {
	if member.Username == "" {
		return ErrEmptyUsername
	}
	members, err := s.readMembers()
	if err != nil {
		return err
	}
	members[member.Username] = member
	return s.writeJSON(membersFile, members)
}

func (s *fileStore) deleteMember(username string) error {
	members, err := s.readMembers()
	if err != nil {
		return err
	}
	if _, ok := members[username]; !ok {
		return nil
	}
	delete(members, username)
	return s.writeJSON(membersFile, members)
}

func (s *fileStore) activeMembers() ([]*models.MemberRecord, error) {
	members, err := s.readMembers()
	if err != nil {
		return nil, err
	}
	active := make([]*models.MemberRecord, 0, len(members))
	for _, m := range members {
		if m.Status == models.StatusActive {
			active = append(active, m)
		}
	}
	// Map order is random; keep output deterministic
	sort.Slice(active, func(i, j int) bool {
		return active[i].Username < active[j].Username
	})
	return active, nil
}

func (s *fileStore) appendLog(event *models.LogEvent) error {
	logs, err := s.readLogs()
	if err != nil {
		return err
	}
	event.ID = uint(len(logs) + 1)
	logs = append(logs, event)
	return s.writeJSON(logsFile, logs)
}

func (s *fileStore) queryLogs(query LogQuery) ([]*models.LogEvent, error) {
	logs, err := s.readLogs()
	if err != nil {
		return nil, err
	}
	matched := make([]*models.LogEvent, 0, len(logs))
	for _, e := range logs {
		if !query.matchesType(e.Type) {
			continue
		}
		if query.Username != "" && e.Username != query.Username {
			continue
		}
		matched = append(matched, e)
	}
	if query.SortByTimeDesc {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		})
	}
	return matched, nil
}

func (s *fileStore) Member(username string) (*models.MemberRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.member(username)
}

func (s *fileStore) PutMember(member *models.MemberRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putMember(member)
}

func (s *fileStore) DeleteMember(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteMember(username)
}

func (s *fileStore) ActiveMembers() ([]*models.MemberRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMembers()
}

func (s *fileStore) AppendLog(event *models.LogEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLog(event)
}

func (s *fileStore) Logs(query LogQuery) ([]*models.LogEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLogs(query)
}

// WithinTx serializes fn under the store lock. Writes to the two
// files are individually durable but not atomic as a pair; this
// matches the flat-file layout's best-effort guarantee.
func (s *fileStore) WithinTx(fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&fileStoreTx{s})
}

func (s *fileStore) Close() error {
	return nil
}

// fileStoreTx exposes the unlocked operations to a WithinTx callback,
// which already holds the store lock.
type fileStoreTx struct {
	s *fileStore
}

func (t *fileStoreTx) Member(username string) (*models.MemberRecord, error) {
	return t.s.member(username)
}

func (t *fileStoreTx) PutMember(member *models.MemberRecord) error {
	return t.s.putMember(member)
}

func (t *fileStoreTx) DeleteMember(username string) error {
	return t.s.deleteMember(username)
}

func (t *fileStoreTx) ActiveMembers() ([]*models.MemberRecord, error) {
	return t.s.activeMembers()
}

func (t *fileStoreTx) AppendLog(event *models.LogEvent) error {
	return t.s.appendLog(event)
}

func (t *fileStoreTx) Logs(query LogQuery) ([]*models.LogEvent, error) {
	return t.s.queryLogs(query)
}

func (t *fileStoreTx) WithinTx(fn func(Store) error) error {
	return fn(t)
}

func (t *fileStoreTx) Close() error {
	return nil
}
