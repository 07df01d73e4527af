package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persistent type.
// Order matters only for readability; gorm resolves tables by name.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Character{},
		&QuestProgress{},
		&DailyQuestSet{},
		&MarketListing{},
		&Guild{},
		&GuildMember{},
		&ChatMessage{},
	)
}
