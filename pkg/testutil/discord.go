package testutil

import (
	"context"

	"github.com/rolewarden/backend/pkg/api/discord"
)

type MockDiscordEndpoint struct {
	BotIDValue             string
	GetGuildFunc           func(ctx context.Context, guildID string) (discord.Guild, error)
	GetRolesFunc           func(ctx context.Context, guildID string) ([]discord.Role, error)
	GetMemberFunc          func(ctx context.Context, guildID, userID string) (discord.Member, error)
	GetMembersFunc         func(ctx context.Context, guildID string) ([]discord.Member, error)
	AddRoleFunc            func(ctx context.Context, guildID, userID, roleID string) error
	RemoveRoleFunc         func(ctx context.Context, guildID, userID, roleID string) error
	IsAdministratorFunc    func(ctx context.Context, guildID, userID string) (bool, error)
	HasManageRolesFunc     func(ctx context.Context, guildID string) (bool, error)
	BotHighestPositionFunc func(ctx context.Context, guildID string) (int, error)
}

func (m *MockDiscordEndpoint) BotID() string {
	if m.BotIDValue != "" {
		return m.BotIDValue
	}

	return "bot"
}

func (m *MockDiscordEndpoint) GetGuild(ctx context.Context, guildID string) (discord.Guild, error) {
	if m.GetGuildFunc != nil {
		return m.GetGuildFunc(ctx, guildID)
	}

	return discord.Guild{ID: guildID}, nil
}

func (m *MockDiscordEndpoint) GetRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	if m.GetRolesFunc != nil {
		return m.GetRolesFunc(ctx, guildID)
	}

	return nil, nil
}

func (m *MockDiscordEndpoint) GetMember(ctx context.Context, guildID, userID string) (discord.Member, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(ctx, guildID, userID)
	}

	return discord.Member{UserID: userID}, nil
}

func (m *MockDiscordEndpoint) GetMembers(ctx context.Context, guildID string) ([]discord.Member, error) {
	if m.GetMembersFunc != nil {
		return m.GetMembersFunc(ctx, guildID)
	}

	return nil, nil
}

func (m *MockDiscordEndpoint) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if m.AddRoleFunc != nil {
		return m.AddRoleFunc(ctx, guildID, userID, roleID)
	}

	return nil
}

func (m *MockDiscordEndpoint) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if m.RemoveRoleFunc != nil {
		return m.RemoveRoleFunc(ctx, guildID, userID, roleID)
	}

	return nil
}

func (m *MockDiscordEndpoint) IsAdministrator(ctx context.Context, guildID, userID string) (bool, error) {
	if m.IsAdministratorFunc != nil {
		return m.IsAdministratorFunc(ctx, guildID, userID)
	}

	return false, nil
}

func (m *MockDiscordEndpoint) HasManageRoles(ctx context.Context, guildID string) (bool, error) {
	if m.HasManageRolesFunc != nil {
		return m.HasManageRolesFunc(ctx, guildID)
	}

	return true, nil
}

func (m *MockDiscordEndpoint) BotHighestPosition(ctx context.Context, guildID string) (int, error) {
	if m.BotHighestPositionFunc != nil {
		return m.BotHighestPositionFunc(ctx, guildID)
	}

	return 10, nil
}
