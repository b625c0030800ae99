package models

import (
	"fmt"
	"strings"
	"time"
)

// Event types for membership lifecycle actions.
const (
	EventJoin      = "JOIN"
	EventKick      = "KICK"
	EventLeft      = "LEFT"
	EventPromote   = "PROMOTE"
	EventDemote    = "DEMOTE"
	EventWarn      = "WARN"
	EventBlacklist = "BLACKLIST"
)

// EventTypes lists all valid event types in display order.
var EventTypes = []string{
	EventJoin,
	EventKick,
	EventLeft,
	EventPromote,
	EventDemote,
	EventWarn,
	EventBlacklist,
}

// ParseEventType normalizes and validates an event type string.
func ParseEventType(s string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	for _, known := range EventTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %q", s)
}

// LogEvent is one immutable entry in the append-only audit log.
// Events survive the deletion of the member they refer to. The
// auto-increment ID is the canonical insertion order.
type LogEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Type      string    `gorm:"size:50;not null;index" json:"type"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Username  string    `gorm:"size:255;index" json:"username"`
	By        string    `gorm:"size:255" json:"by"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	// Type-dependent fields, zero-valued when not applicable.
	Rank     string     `gorm:"size:100" json:"rank,omitempty"`
	JoinedAt *time.Time `json:"joinedAt,omitempty"`
	Warnings *int       `json:"warnings,omitempty"`
	Extra    string     `gorm:"type:text" json:"extra,omitempty"`
	FromRank string     `gorm:"size:100" json:"from,omitempty"`
	ToRank   string     `gorm:"size:100" json:"to,omitempty"`

	CreatedAt time.Time `json:"-"`
}

// TableName matches the original schema's table naming.
func (LogEvent) TableName() string {
	return "logs"
}
