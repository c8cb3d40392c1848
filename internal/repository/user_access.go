package repository

import (
	"context"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserAccessRepository interface {
	Upsert(ctx context.Context, e *entity.UserAccess) error
	GetByDiscordID(ctx context.Context, discordID string) (*entity.UserAccess, error)
	GetBanned(ctx context.Context) ([]entity.UserAccess, error)
	GetContributors(ctx context.Context) ([]entity.UserAccess, error)
	GetBotAdmins(ctx context.Context) ([]entity.UserAccess, error)
}

type userAccessRepository struct{}

func NewUserAccessRepository() UserAccessRepository {
	return &userAccessRepository{}
}

func (r *userAccessRepository) Upsert(ctx context.Context, e *entity.UserAccess) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "discord_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"banned", "contributor", "bot_admin", "updated_at",
		}),
	}).Create(e).Error
}

func (r *userAccessRepository) GetByDiscordID(ctx context.Context, discordID string) (*entity.UserAccess, error) {
	result := entity.UserAccess{}
	if err := xcontext.DB(ctx).Take(&result, "discord_id = ?", discordID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userAccessRepository) GetBanned(ctx context.Context) ([]entity.UserAccess, error) {
	result := []entity.UserAccess{}
	if err := xcontext.DB(ctx).Find(&result, "banned = ?", true).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userAccessRepository) GetContributors(ctx context.Context) ([]entity.UserAccess, error) {
	result := []entity.UserAccess{}
	if err := xcontext.DB(ctx).Find(&result, "contributor = ?", true).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userAccessRepository) GetBotAdmins(ctx context.Context) ([]entity.UserAccess, error) {
	result := []entity.UserAccess{}
	if err := xcontext.DB(ctx).Find(&result, "bot_admin = ?", true).Error; err != nil {
		return nil, err
	}

	return result, nil
}
