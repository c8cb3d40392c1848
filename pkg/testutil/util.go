package testutil

import (
	"context"

	"github.com/rolewarden/backend/config"
	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/logger"
	"github.com/rolewarden/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env:      "test",
		LogLevel: "SILENCE",
		Discord: config.DiscordConfigs{
			BotID:     "bot",
			CreatorID: "creator",
		},
		RoleSync: config.RoleSyncConfigs{
			FanOut: 2,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}
