package migration

import (
	"context"

	"github.com/rolewarden/backend/pkg/xcontext"
)

type Guild0 struct {
	Base0
	DiscordID string `gorm:"uniqueIndex"`
	Name      string
	Banned    bool
}

func (Guild0) TableName() string {
	return "guilds"
}

type UserAccess0 struct {
	Base0
	DiscordID   string `gorm:"uniqueIndex"`
	Banned      bool
	Contributor bool
}

func (UserAccess0) TableName() string {
	return "user_accesses"
}

// migrate0000 creates the database at its first version.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Guild0{},
		&UserAccess0{},
	)
}
