package discord

import "context"

type IEndpoint interface {
	BotID() string
	GetGuild(ctx context.Context, guildID string) (Guild, error)
	GetRoles(ctx context.Context, guildID string) ([]Role, error)
	GetMember(ctx context.Context, guildID, userID string) (Member, error)
	GetMembers(ctx context.Context, guildID string) ([]Member, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	IsAdministrator(ctx context.Context, guildID, userID string) (bool, error)
	HasManageRoles(ctx context.Context, guildID string) (bool, error)
	BotHighestPosition(ctx context.Context, guildID string) (int, error)
}
