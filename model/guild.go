package model

import "time"

// Guild member ranks, lowest value = highest authority.
const (
	GuildRankLeader  = 1
	GuildRankOfficer = 2
	GuildRankMember  = 3
)

// Guild is a named player association. Gold is a shared treasury the
// members can donate into.
type Guild struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	LeaderID  int64     `gorm:"not null;index" json:"leader_id"`
	Level     int       `gorm:"default:1" json:"level"`
	Gold      int64     `gorm:"default:0" json:"gold"`
	Notice    string    `gorm:"size:256" json:"notice"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// GuildMember is the membership row. A character appears in at most
// one guild; the service layer enforces that.
type GuildMember struct {
	GuildID  int64     `gorm:"primaryKey" json:"guild_id"`
	CharID   int64     `gorm:"primaryKey;index" json:"char_id"`
	Rank     int       `gorm:"default:3" json:"rank"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
