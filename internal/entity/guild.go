package entity

type Guild struct {
	Base
	DiscordID string `gorm:"uniqueIndex"`
	Name      string
	Banned    bool
}
