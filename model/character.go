package model

import (
	"time"

	"gorm.io/datatypes"
)

// Character is the persisted snapshot of a player's character. The
// in-memory ledger is the source of truth while a session is live; this
// row is its best-effort mirror, refreshed on explicit commits. The
// indexed columns duplicate a few snapshot fields so leaderboards and
// social features can query without unpacking State.
type Character struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64          `gorm:"index:idx_account_char;not null" json:"account_id"`
	Name      string         `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Class     string         `gorm:"size:16;not null" json:"class"`
	Gender    string         `gorm:"size:8" json:"gender"`
	Level     int            `gorm:"default:1" json:"level"`
	Exp       int64          `gorm:"default:0" json:"exp"`
	Gold      int64          `gorm:"default:0" json:"gold"`
	Honor     int64          `gorm:"default:0;index" json:"honor"`
	GuildID   *int64         `json:"guild_id"`
	State     datatypes.JSON `json:"state"` // full ledger snapshot
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
