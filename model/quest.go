package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuestProgress tracks a character's progress on one quest. Progress
// maps requirement index to current count, e.g. {"0": 3, "1": 1}.
type QuestProgress struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID      int64          `gorm:"index:idx_char_quest;not null" json:"char_id"`
	QuestID     string         `gorm:"size:64;not null" json:"quest_id"`
	Daily       bool           `gorm:"default:false" json:"daily"`
	Progress    datatypes.JSON `json:"progress"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time     `json:"completed_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// DailyQuestSet records which dailies were rolled for a character and on
// which calendar day, so a restart within the same day keeps the set.
type DailyQuestSet struct {
	CharID    int64          `gorm:"primaryKey" json:"char_id"`
	Date      string         `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	QuestIDs  datatypes.JSON `json:"quest_ids"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
