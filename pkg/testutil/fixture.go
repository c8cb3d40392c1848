package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/internal/repository"
)

var (
	Guild1 = entity.Guild{
		Base:      entity.Base{ID: uuid.NewString()},
		DiscordID: "100000000000000001",
		Name:      "Guild 1",
	}

	BannedGuild1 = entity.Guild{
		Base:      entity.Base{ID: uuid.NewString()},
		DiscordID: "100000000000000002",
		Name:      "Banned Guild 1",
		Banned:    true,
	}

	BannedUser1 = entity.UserAccess{
		Base:      entity.Base{ID: uuid.NewString()},
		DiscordID: "200000000000000001",
		Banned:    true,
	}

	Contributor1 = entity.UserAccess{
		Base:        entity.Base{ID: uuid.NewString()},
		DiscordID:   "200000000000000002",
		Contributor: true,
	}

	BotAdmin1 = entity.UserAccess{
		Base:      entity.Base{ID: uuid.NewString()},
		DiscordID: "200000000000000003",
		BotAdmin:  true,
	}
)

func CreateFixtureDb(ctx context.Context) {
	guildRepo := repository.NewGuildRepository(&MockRedisClient{})
	userAccessRepo := repository.NewUserAccessRepository()

	for _, guild := range []entity.Guild{Guild1, BannedGuild1} {
		guild := guild
		if err := guildRepo.Create(ctx, &guild); err != nil {
			panic(err)
		}
	}

	for _, user := range []entity.UserAccess{BannedUser1, Contributor1, BotAdmin1} {
		user := user
		if err := userAccessRepo.Upsert(ctx, &user); err != nil {
			panic(err)
		}
	}
}
