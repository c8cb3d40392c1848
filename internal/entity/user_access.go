package entity

// UserAccess records the global privilege flags of a platform user. Regular
// users have no record at all.
type UserAccess struct {
	Base
	DiscordID   string `gorm:"uniqueIndex"`
	Banned      bool
	Contributor bool
	BotAdmin    bool
}
