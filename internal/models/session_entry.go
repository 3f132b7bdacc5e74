package models

import "time"

// SessionEntry is one key/value item of a browser session's storage.
type SessionEntry struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"size:64;not null;index:idx_session_entry_key,unique"`
	Key       string `gorm:"column:item_key;size:128;not null;index:idx_session_entry_key,unique"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}
