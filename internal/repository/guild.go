package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/xcontext"
	"github.com/rolewarden/backend/pkg/xredis"
)

type GuildRepository interface {
	Create(ctx context.Context, e *entity.Guild) error
	GetByDiscordID(ctx context.Context, discordID string) (*entity.Guild, error)
	GetBanned(ctx context.Context) ([]entity.Guild, error)
	SetBanned(ctx context.Context, discordID string, banned bool) error
}

type guildRepository struct {
	redisClient xredis.Client
}

func NewGuildRepository(redisClient xredis.Client) GuildRepository {
	return &guildRepository{redisClient: redisClient}
}

func (r *guildRepository) cacheKey(discordID string) string {
	return fmt.Sprintf("cache:guild:%s", discordID)
}

func (r *guildRepository) cache(ctx context.Context, guilds ...entity.Guild) {
	redisKV := map[string]any{}
	for _, record := range guilds {
		b, err := json.Marshal(record)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot marshal guild for caching: %v", err)
			return
		}

		redisKV[r.cacheKey(record.DiscordID)] = string(b)
	}

	if err := r.redisClient.MSet(ctx, redisKV); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple set for guild redis: %v", err)
	}
}

func (r *guildRepository) fromCache(ctx context.Context, discordID string) *entity.Guild {
	s, err := r.redisClient.Get(ctx, r.cacheKey(discordID))
	if err != nil {
		return nil
	}

	var result entity.Guild
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal guild object: %v", err)
		return nil
	}

	return &result
}

func (r *guildRepository) Create(ctx context.Context, e *entity.Guild) error {
	if err := xcontext.DB(ctx).Create(e).Error; err != nil {
		return err
	}

	r.cache(ctx, *e)
	return nil
}

func (r *guildRepository) GetByDiscordID(ctx context.Context, discordID string) (*entity.Guild, error) {
	if cached := r.fromCache(ctx, discordID); cached != nil {
		return cached, nil
	}

	result := entity.Guild{}
	if err := xcontext.DB(ctx).Take(&result, "discord_id = ?", discordID).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, result)
	return &result, nil
}

func (r *guildRepository) GetBanned(ctx context.Context) ([]entity.Guild, error) {
	result := []entity.Guild{}
	if err := xcontext.DB(ctx).Find(&result, "banned = ?", true).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *guildRepository) SetBanned(ctx context.Context, discordID string, banned bool) error {
	err := xcontext.DB(ctx).
		Model(&entity.Guild{}).
		Where("discord_id = ?", discordID).
		Update("banned", banned).Error
	if err != nil {
		return err
	}

	if err := r.redisClient.Del(ctx, r.cacheKey(discordID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate guild cache: %v", err)
	}

	return nil
}
