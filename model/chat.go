package model

import "time"

// ChatMessage is one persisted chat line. Recent history also lives in
// the cache list for cheap reads; these rows are the durable record.
type ChatMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Channel   string    `gorm:"size:32;not null;index" json:"channel"` // world | guild:<id>
	CharID    int64     `gorm:"not null" json:"char_id"`
	CharName  string    `gorm:"size:32" json:"char_name"`
	Content   string    `gorm:"size:256;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
