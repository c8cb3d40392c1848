package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rolewarden/backend/internal/common"
	"github.com/rolewarden/backend/internal/model"
	"github.com/rolewarden/backend/internal/repository"
	"github.com/rolewarden/backend/pkg/api/discord"
	"github.com/rolewarden/backend/pkg/errorx"
	"github.com/rolewarden/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

const ownerID = "300000000000000009"

func newTestDomain(
	t *testing.T, ctx context.Context, endpoint *testutil.MockDiscordEndpoint,
) RoleAdminDomain {
	store := common.NewSecurityStore(
		repository.NewGuildRepository(&testutil.MockRedisClient{}),
		repository.NewUserAccessRepository(),
	)
	require.NoError(t, store.Load(ctx))

	return NewRoleAdminDomain(
		store,
		common.NewRankResolver(store, "creator"),
		endpoint,
		&testutil.MockSeniorityCaller{},
	)
}

func ownerEndpoint(roles []discord.Role, members map[string]discord.Member) *testutil.MockDiscordEndpoint {
	return &testutil.MockDiscordEndpoint{
		GetGuildFunc: func(ctx context.Context, guildID string) (discord.Guild, error) {
			return discord.Guild{ID: guildID, OwnerID: ownerID}, nil
		},
		GetRolesFunc: func(ctx context.Context, guildID string) ([]discord.Role, error) {
			return roles, nil
		},
		GetMemberFunc: func(ctx context.Context, guildID, userID string) (discord.Member, error) {
			member, ok := members[userID]
			if !ok {
				return discord.Member{}, errors.New("unknown member")
			}
			return member, nil
		},
		BotHighestPositionFunc: func(ctx context.Context, guildID string) (int, error) {
			return 5, nil
		},
	}
}

func TestRoleAdminDomain_BannedGuildPreflight(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	var platformCalls int32
	endpoint := &testutil.MockDiscordEndpoint{
		GetGuildFunc: func(ctx context.Context, guildID string) (discord.Guild, error) {
			atomic.AddInt32(&platformCalls, 1)
			return discord.Guild{ID: guildID}, nil
		},
	}

	d := newTestDomain(t, ctx, endpoint)

	_, err := d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.BannedGuild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   EveryoneTarget,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "This guild is banned"), err)

	// The refusal happens before any platform lookup.
	require.EqualValues(t, 0, platformCalls)
}

func TestRoleAdminDomain_InsufficientRank(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	mutations := int32(0)
	endpoint := ownerEndpoint(nil, nil)
	endpoint.AddRoleFunc = func(ctx context.Context, guildID, userID, roleID string) error {
		atomic.AddInt32(&mutations, 1)
		return nil
	}

	d := newTestDomain(t, ctx, endpoint)

	_, err := d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: "random-user"},
		RoleName: "Helpers",
		Target:   EveryoneTarget,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	require.EqualValues(t, 0, mutations)
}

func TestRoleAdminDomain_MissingManageRoles(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	endpoint := ownerEndpoint(nil, nil)
	endpoint.HasManageRolesFunc = func(ctx context.Context, guildID string) (bool, error) {
		return false, nil
	}

	d := newTestDomain(t, ctx, endpoint)

	_, err := d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   EveryoneTarget,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Missing manage roles permission"), err)
}

func TestRoleAdminDomain_RoleNotFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	endpoint := ownerEndpoint([]discord.Role{
		{ID: "role-1", Name: "Moderators", Position: 1},
	}, nil)

	d := newTestDomain(t, ctx, endpoint)

	_, err := d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   EveryoneTarget,
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found role Helpers"), err)
}

func TestRoleAdminDomain_MemberNotFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	endpoint := ownerEndpoint([]discord.Role{
		{ID: "role-1", Name: "Helpers", Position: 1},
	}, map[string]discord.Member{})

	d := newTestDomain(t, ctx, endpoint)

	_, err := d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   "300000000000000001",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found member 300000000000000001"), err)

	_, err = d.GiveRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   "not a snowflake",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid user id not a snowflake"), err)
}

func TestRoleAdminDomain_GiveRoleToOwnerTwice(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	roles := []discord.Role{{ID: "role-1", Name: "Helpers", Position: 1}}
	members := map[string]discord.Member{
		ownerID: {UserID: ownerID},
	}

	endpoint := ownerEndpoint(roles, members)
	endpoint.AddRoleFunc = func(ctx context.Context, guildID, userID, roleID string) error {
		member := members[userID]
		member.RoleIDs = append(member.RoleIDs, roleID)
		members[userID] = member
		return nil
	}

	d := newTestDomain(t, ctx, endpoint)

	req := &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "helpers", // case-insensitive lookup
		Target:   ownerID,
	}

	resp, err := d.GiveRole(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Applied)
	require.Equal(t, 1, resp.Total)
	require.Equal(t, "Helpers", resp.RoleName)

	resp, err = d.GiveRole(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 0, resp.Applied)
	require.Equal(t, 1, resp.Kept)
	require.Equal(t, 1, resp.Total)
}

func TestRoleAdminDomain_TakeRoleFromEveryone(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	roles := []discord.Role{{ID: "role-1", Name: "Helpers", Position: 1}}
	endpoint := ownerEndpoint(roles, nil)
	endpoint.GetMembersFunc = func(ctx context.Context, guildID string) ([]discord.Member, error) {
		return []discord.Member{
			{UserID: "user-1", RoleIDs: []string{"role-1"}},
			{UserID: "user-2"},
			{UserID: "user-3", RoleIDs: []string{"role-1"}},
		}, nil
	}

	d := newTestDomain(t, ctx, endpoint)

	resp, err := d.TakeRole(ctx, &model.MutateRoleRequest{
		GuildID:  testutil.Guild1.DiscordID,
		Actor:    model.Actor{ID: ownerID},
		RoleName: "Helpers",
		Target:   EveryoneTarget,
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Applied)
	require.Equal(t, 1, resp.Kept)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, EveryoneTarget, resp.Target)
}

func TestRoleAdminDomain_ListRoles(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	endpoint := ownerEndpoint([]discord.Role{
		{ID: testutil.Guild1.DiscordID, Name: "@everyone", Position: 0},
		{ID: "role-1", Name: "Helpers", Position: 1},
		{ID: "role-2", Name: "Moderators", Position: 2},
		{ID: "role-3", Name: "Placeholder", Position: -1},
	}, nil)

	d := newTestDomain(t, ctx, endpoint)

	resp, err := d.ListRoles(ctx, &model.ListRolesRequest{
		GuildID: testutil.Guild1.DiscordID,
		Actor:   model.Actor{ID: ownerID},
	})
	require.NoError(t, err)
	require.Equal(t, []model.Role{
		{ID: "role-1", Name: "Helpers", Position: 1},
		{ID: "role-2", Name: "Moderators", Position: 2},
	}, resp.Roles)
}

func TestRoleAdminDomain_Seniority(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	store := common.NewSecurityStore(
		repository.NewGuildRepository(&testutil.MockRedisClient{}),
		repository.NewUserAccessRepository(),
	)
	require.NoError(t, store.Load(ctx))

	synchronized := false
	cleaned := false
	canModify := true
	seniority := &testutil.MockSeniorityCaller{
		SynchronizeRolesFunc: func(ctx context.Context, guildID string) error {
			synchronized = true
			return nil
		},
		CleanupRolesFunc: func(ctx context.Context, guildID, botID string) error {
			cleaned = true
			return nil
		},
		CanModifyFunc: func(ctx context.Context, guildID, botID string) (bool, error) {
			return canModify, nil
		},
	}

	d := NewRoleAdminDomain(
		store,
		common.NewRankResolver(store, "creator"),
		ownerEndpoint(nil, nil),
		seniority,
	)

	req := &model.SeniorityRequest{
		GuildID: testutil.Guild1.DiscordID,
		Actor:   model.Actor{ID: ownerID},
	}

	_, err := d.SetupSeniority(ctx, req)
	require.NoError(t, err)
	require.True(t, synchronized)

	_, err = d.CleanupSeniority(ctx, req)
	require.NoError(t, err)
	require.True(t, cleaned)

	canModify = false
	_, err = d.SetupSeniority(ctx, req)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "No permission to manage seniority roles"), err)
}
