package storage

import (
	"errors"

	"guild-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements Store on a relational database through GORM.
type gormStore struct {
	db      *gorm.DB
	members *MemberRepository
	logs    *LogRepository
}

func newGormStore(db *gorm.DB) *gormStore {
	return &gormStore{
		db:      db,
		members: NewMemberRepository(db),
		logs:    NewLogRepository(db),
	}
}

// migrate ensures both tables exist.
func (s *gormStore) migrate() error {
	if err := s.members.MigrateTable(); err != nil {
		return err
	}
	return s.logs.MigrateTable()
}

func (s *gormStore) Member(username string) (*models.MemberRecord, error) {
	return s.members.Get(username)
}

func (s *gormStore) PutMember(member *models.MemberRecord) error {
	return s.members.Put(member)
}

func (s *gormStore) DeleteMember(username string) error {
	return s.members.Delete(username)
}

func (s *gormStore) ActiveMembers() ([]*models.MemberRecord, error) {
	return s.members.GetActive()
}

func (s *gormStore) AppendLog(event *models.LogEvent) error {
	return s.logs.Append(event)
}

func (s *gormStore) Logs(query LogQuery) ([]*models.LogEvent, error) {
	return s.logs.Query(query)
}

// WithinTx runs fn inside a single database transaction.
func (s *gormStore) WithinTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(newGormStore(tx))
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MemberRepository handles database operations for MemberRecord
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// MigrateTable ensures the MemberRecord table exists
func (r *MemberRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.MemberRecord{})
}

// Get returns the record for a username, or nil when none exists
func (r *MemberRepository) Get(username string) (*models.MemberRecord, error) {
	var member models.MemberRecord
	result := r.db.Where("username = ?", username).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &member, nil
}

// Put upserts a member record keyed by username
func (r *MemberRepository) Put(member *models.MemberRecord) error {
	if member.Username == "" {
		return ErrEmptyUsername
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "rank", "status", "warnings", "joined_at", "notified_one_month", "updated_at",
		}),
	}).Create(member).Error
}

// Delete removes a member record; deleting an absent record is not an error
func (r *MemberRepository) Delete(username string) error {
	return r.db.Where("username = ?", username).Delete(&models.MemberRecord{}).Error
}

// GetActive returns all members with active status
func (r *MemberRepository) GetActive() ([]*models.MemberRecord, error) {
	var members []*models.MemberRecord
	result := r.db.Where("status = ?", models.StatusActive).Find(&members)
	return members, result.Error
}

// LogRepository handles database operations for LogEvent
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// MigrateTable ensures the LogEvent table exists
func (r *LogRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.LogEvent{})
}

// Append inserts a new log event
func (r *LogRepository) Append(event *models.LogEvent) error {
	return r.db.Create(event).Error
}

// Query returns events filtered by type and/or username
func (r *LogRepository) Query(query LogQuery) ([]*models.LogEvent, error) {
	db := r.db.Model(&models.LogEvent{})
	if query.Type != "" && query.Type != "ALL" {
		db = db.Where("type = ?", query.Type)
	}
	if query.Username != "" {
		db = db.Where("username = ?", query.Username)
	}
	if query.SortByTimeDesc {
		db = db.Order("timestamp DESC")
	} else {
		db = db.Order("id ASC")
	}

	var events []*models.LogEvent
	result := db.Find(&events)
	return events, result.Error
}
