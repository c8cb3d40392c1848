package domain

import (
	"context"
	"strings"

	"github.com/rolewarden/backend/internal/client"
	"github.com/rolewarden/backend/internal/common"
	"github.com/rolewarden/backend/internal/domain/rolesync"
	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/internal/model"
	"github.com/rolewarden/backend/pkg/api/discord"
	"github.com/rolewarden/backend/pkg/errorx"
	"github.com/rolewarden/backend/pkg/idutil"
	"github.com/rolewarden/backend/pkg/xcontext"
)

// EveryoneTarget expands a mutation to the full roster of the guild.
const EveryoneTarget = "everyone"

// The platform marks its synthetic everyone placeholder with this position.
const everyonePositionSentinel = -1

type RoleAdminDomain interface {
	ListRoles(ctx context.Context, req *model.ListRolesRequest) (*model.ListRolesResponse, error)
	GiveRole(ctx context.Context, req *model.MutateRoleRequest) (*model.MutateRoleResponse, error)
	TakeRole(ctx context.Context, req *model.MutateRoleRequest) (*model.MutateRoleResponse, error)
	SetupSeniority(ctx context.Context, req *model.SeniorityRequest) (*model.SeniorityResponse, error)
	CleanupSeniority(ctx context.Context, req *model.SeniorityRequest) (*model.SeniorityResponse, error)
}

type roleAdminDomain struct {
	securityStore   *common.SecurityStore
	rankResolver    *common.RankResolver
	discordEndpoint discord.IEndpoint
	seniorityCaller client.SeniorityCaller
	engine          *rolesync.Engine
}

func NewRoleAdminDomain(
	securityStore *common.SecurityStore,
	rankResolver *common.RankResolver,
	discordEndpoint discord.IEndpoint,
	seniorityCaller client.SeniorityCaller,
) RoleAdminDomain {
	return &roleAdminDomain{
		securityStore:   securityStore,
		rankResolver:    rankResolver,
		discordEndpoint: discordEndpoint,
		seniorityCaller: seniorityCaller,
		engine:          rolesync.NewEngine(discordEndpoint),
	}
}

// gate refuses banned guilds before anything else, then resolves the actor's
// rank against the guild scope. Every subcommand shares this gate, listing
// included.
func (d *roleAdminDomain) gate(
	ctx context.Context, guildID string, actor model.Actor,
) (discord.Guild, error) {
	if guildID == "" {
		return discord.Guild{}, errorx.New(errorx.BadRequest, "Not allow empty guild id")
	}

	if d.securityStore.IsGuildBanned(guildID) {
		return discord.Guild{}, errorx.New(errorx.PermissionDenied, "This guild is banned")
	}

	guild, err := d.discordEndpoint.GetGuild(ctx, guildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get guild %s: %v", guildID, err)
		return discord.Guild{}, errorx.New(errorx.NotFound, "Not found guild")
	}

	scope := &common.Scope{
		GuildID: guildID,
		OwnerID: guild.OwnerID,
		IsAdministrator: func(ctx context.Context, userID string) (bool, error) {
			return d.discordEndpoint.IsAdministrator(ctx, guildID, userID)
		},
	}

	rank := d.rankResolver.Resolve(ctx, common.Actor{ID: actor.ID, Bot: actor.Bot}, scope)
	if !rank.IsAtLeast(entity.RankGuildAdmin) {
		xcontext.Logger(ctx).Debugf("Actor %s resolved to %s, gated out", actor.ID, rank)
		return discord.Guild{}, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return guild, nil
}

func (d *roleAdminDomain) requireManageRoles(ctx context.Context, guildID string) error {
	ok, err := d.discordEndpoint.HasManageRoles(ctx, guildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check manage roles capability: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return errorx.New(errorx.PermissionDenied, "Missing manage roles permission")
	}

	return nil
}

func (d *roleAdminDomain) ListRoles(
	ctx context.Context, req *model.ListRolesRequest,
) (*model.ListRolesResponse, error) {
	if _, err := d.gate(ctx, req.GuildID, req.Actor); err != nil {
		return nil, err
	}

	roles, err := d.discordEndpoint.GetRoles(ctx, req.GuildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get roles of guild %s: %v", req.GuildID, err)
		return nil, errorx.Unknown
	}

	clientRoles := []model.Role{}
	for _, role := range roles {
		if role.Position == everyonePositionSentinel || role.ID == req.GuildID {
			continue
		}

		clientRoles = append(clientRoles, model.ConvertRole(role))
	}

	return &model.ListRolesResponse{Roles: clientRoles}, nil
}

func (d *roleAdminDomain) GiveRole(
	ctx context.Context, req *model.MutateRoleRequest,
) (*model.MutateRoleResponse, error) {
	return d.mutateRole(ctx, req, true)
}

func (d *roleAdminDomain) TakeRole(
	ctx context.Context, req *model.MutateRoleRequest,
) (*model.MutateRoleResponse, error) {
	return d.mutateRole(ctx, req, false)
}

func (d *roleAdminDomain) mutateRole(
	ctx context.Context, req *model.MutateRoleRequest, add bool,
) (*model.MutateRoleResponse, error) {
	if _, err := d.gate(ctx, req.GuildID, req.Actor); err != nil {
		return nil, err
	}

	if err := d.requireManageRoles(ctx, req.GuildID); err != nil {
		return nil, err
	}

	role, err := d.findRole(ctx, req.GuildID, req.RoleName)
	if err != nil {
		return nil, err
	}

	members, target, err := d.resolveTarget(ctx, req.GuildID, req.Target)
	if err != nil {
		return nil, err
	}

	botPosition, err := d.discordEndpoint.BotHighestPosition(ctx, req.GuildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bot role position: %v", err)
		return nil, errorx.Unknown
	}

	outcomes := d.engine.Apply(ctx, rolesync.Request{
		GuildID:     req.GuildID,
		Role:        role,
		Members:     members,
		Add:         add,
		BotPosition: botPosition,
		FanOut:      xcontext.Configs(ctx).RoleSync.FanOut,
	})

	resp := model.ConvertSummary(role.Name, target, rolesync.Summarize(outcomes))
	return &resp, nil
}

func (d *roleAdminDomain) SetupSeniority(
	ctx context.Context, req *model.SeniorityRequest,
) (*model.SeniorityResponse, error) {
	if _, err := d.gate(ctx, req.GuildID, req.Actor); err != nil {
		return nil, err
	}

	if err := d.requireManageRoles(ctx, req.GuildID); err != nil {
		return nil, err
	}

	botID := d.discordEndpoint.BotID()
	ok, err := d.seniorityCaller.CanModify(ctx, req.GuildID, botID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check seniority modify capability: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		return nil, errorx.New(errorx.PermissionDenied, "No permission to manage seniority roles")
	}

	if err := d.seniorityCaller.SynchronizeRoles(ctx, req.GuildID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot synchronize seniority roles: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SeniorityResponse{}, nil
}

func (d *roleAdminDomain) CleanupSeniority(
	ctx context.Context, req *model.SeniorityRequest,
) (*model.SeniorityResponse, error) {
	if _, err := d.gate(ctx, req.GuildID, req.Actor); err != nil {
		return nil, err
	}

	if err := d.requireManageRoles(ctx, req.GuildID); err != nil {
		return nil, err
	}

	if err := d.seniorityCaller.CleanupRoles(ctx, req.GuildID, d.discordEndpoint.BotID()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cleanup seniority roles: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SeniorityResponse{}, nil
}

// findRole matches a role by name, case-insensitively, falling back to the
// first prefix match so partial names work.
func (d *roleAdminDomain) findRole(
	ctx context.Context, guildID, name string,
) (discord.Role, error) {
	if name == "" {
		return discord.Role{}, errorx.New(errorx.BadRequest, "Not allow empty role name")
	}

	roles, err := d.discordEndpoint.GetRoles(ctx, guildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get roles of guild %s: %v", guildID, err)
		return discord.Role{}, errorx.Unknown
	}

	var prefixMatch *discord.Role
	for i, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}

		if prefixMatch == nil && hasFoldPrefix(role.Name, name) {
			prefixMatch = &roles[i]
		}
	}

	if prefixMatch != nil {
		return *prefixMatch, nil
	}

	return discord.Role{}, errorx.New(errorx.NotFound, "Not found role %s", name)
}

func (d *roleAdminDomain) resolveTarget(
	ctx context.Context, guildID, target string,
) ([]discord.Member, string, error) {
	if strings.EqualFold(target, EveryoneTarget) {
		members, err := d.discordEndpoint.GetMembers(ctx, guildID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get members of guild %s: %v", guildID, err)
			return nil, "", errorx.Unknown
		}

		return members, EveryoneTarget, nil
	}

	if !idutil.IsSnowflake(target) {
		return nil, "", errorx.New(errorx.BadRequest, "Invalid user id %s", target)
	}

	member, err := d.discordEndpoint.GetMember(ctx, guildID, target)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get member %s of guild %s: %v", target, guildID, err)
		return nil, "", errorx.New(errorx.NotFound, "Not found member %s", target)
	}

	return []discord.Member{member}, member.UserID, nil
}

func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}

	return strings.EqualFold(s[:len(prefix)], prefix)
}
