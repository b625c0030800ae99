package models

import "time"

// StatusActive is the only status persisted for members; removal deletes
// the record rather than marking it inactive.
const StatusActive = "active"

// MemberRecord stores the current state of one community member,
// keyed by their unique username. Historical information lives in the
// event log, not here.
type MemberRecord struct {
	Username         string    `gorm:"primaryKey;size:255" json:"username"`
	Name             string    `gorm:"size:255;not null;index" json:"name"`
	Rank             string    `gorm:"size:100;not null" json:"rank"`
	Status           string    `gorm:"size:50;default:active;index" json:"status"`
	Warnings         int       `gorm:"default:0" json:"warnings"`
	JoinedAt         time.Time `json:"joinedAt"`
	NotifiedOneMonth bool      `gorm:"default:false" json:"notifiedOneMonth"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// TableName keeps the table name aligned with the logs table naming.
func (MemberRecord) TableName() string {
	return "members"
}
