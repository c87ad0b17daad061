package models

import "time"

// WebSession is a persisted browser session row of the sql session backend.
type WebSession struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"type:blob;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (WebSession) TableName() string {
	return "web_sessions"
}
