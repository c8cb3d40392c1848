package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/rolewarden/backend/config"
	"github.com/rolewarden/backend/pkg/api"
	mathUtil "github.com/pkg/math"
)

const apiURL = "https://discord.com/api/v10"
const userAgent = "DiscordBot (https://rolewarden.io, 1.0)"

const membersPageSize = 1000

const (
	modifyMemberRoleResource = "modify_member_role"
	listGuildMembersResource = "list_guild_members"
)

type Endpoint struct {
	botToken string
	botID    string

	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New(cfg config.DiscordConfigs) *Endpoint {
	return &Endpoint{
		botToken:          cfg.BotToken,
		botID:             cfg.BotID,
		apiGenerator:      api.NewGenerator(),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

func (e *Endpoint) BotID() string {
	return e.botID
}

func (e *Endpoint) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s", guildID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return Guild{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Guild{}, errors.New("invalid response")
	}

	id, err := body.GetString("id")
	if err != nil {
		return Guild{}, err
	}

	ownerID, err := body.GetString("owner_id")
	if err != nil {
		return Guild{}, err
	}

	return Guild{ID: id, OwnerID: ownerID}, nil
}

func (e *Endpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/roles", guildID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return nil, err
	}

	array, ok := resp.Body.(api.Array)
	if !ok {
		return nil, errors.New("invalid response")
	}

	var roles []Role
	for _, obj := range array {
		role, err := parseRole(obj)
		if err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}

	return roles, nil
}

func (e *Endpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s", guildID, userID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return Member{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Member{}, errors.New("invalid response")
	}

	// If response has the field of code, an error is returned.
	if _, err := body.GetInt("code"); err == nil {
		return Member{}, fmt.Errorf("not found member %s of guild %s", userID, guildID)
	}

	return parseMember(body)
}

// GetMembers walks the full roster of a guild. The returned slice is a
// point-in-time snapshot, membership changes after the call are not
// reflected in it.
func (e *Endpoint) GetMembers(ctx context.Context, guildID string) ([]Member, error) {
	if err := e.checkLimitingResource(listGuildMembersResource, guildID); err != nil {
		return nil, err
	}

	var members []Member
	after := ""
	for {
		query := api.Parameter{"limit": strconv.Itoa(membersPageSize)}
		if after != "" {
			query["after"] = after
		}

		resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members", guildID).
			Header("User-Agent", userAgent).
			Query(query).
			GET(ctx, api.OAuth2("Bot", e.botToken))
		if err != nil {
			return nil, err
		}

		if err := e.checkTooManyRequest(resp, listGuildMembersResource, guildID); err != nil {
			return nil, err
		}

		array, ok := resp.Body.(api.Array)
		if !ok {
			return nil, errors.New("invalid response")
		}

		for _, obj := range array {
			member, err := parseMember(obj)
			if err != nil {
				return nil, err
			}

			members = append(members, member)
			after = member.UserID
		}

		if len(array) < membersPageSize {
			return members, nil
		}
	}
}

func (e *Endpoint) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := e.checkLimitingResource(modifyMemberRoleResource, guildID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s/roles/%s", guildID, userID, roleID).
		Header("User-Agent", userAgent).
		PUT(ctx, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, modifyMemberRoleResource, guildID); err != nil {
		return err
	}

	if resp.Code >= http.StatusBadRequest {
		return fmt.Errorf("cannot add role %s to member %s: status %d", roleID, userID, resp.Code)
	}

	return nil
}

func (e *Endpoint) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := e.checkLimitingResource(modifyMemberRoleResource, guildID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s/roles/%s", guildID, userID, roleID).
		Header("User-Agent", userAgent).
		DELETE(ctx, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, modifyMemberRoleResource, guildID); err != nil {
		return err
	}

	if resp.Code >= http.StatusBadRequest {
		return fmt.Errorf("cannot remove role %s from member %s: status %d", roleID, userID, resp.Code)
	}

	return nil
}

// IsAdministrator reports whether the user holds administrator authority in
// the guild, either by owning it or through a role carrying the
// administrator permission bit.
func (e *Endpoint) IsAdministrator(ctx context.Context, guildID, userID string) (bool, error) {
	guild, err := e.GetGuild(ctx, guildID)
	if err != nil {
		return false, err
	}

	if guild.OwnerID == userID {
		return true, nil
	}

	permissions, err := e.memberPermissions(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	return permissions&PermissionAdministrator != 0, nil
}

// HasManageRoles reports whether the bot itself can manage roles in the
// guild.
func (e *Endpoint) HasManageRoles(ctx context.Context, guildID string) (bool, error) {
	permissions, err := e.memberPermissions(ctx, guildID, e.botID)
	if err != nil {
		return false, err
	}

	return permissions&(PermissionManageRoles|PermissionAdministrator) != 0, nil
}

// BotHighestPosition returns the highest role position held by the bot. The
// bot can only interact with roles strictly below it.
func (e *Endpoint) BotHighestPosition(ctx context.Context, guildID string) (int, error) {
	member, err := e.GetMember(ctx, guildID, e.botID)
	if err != nil {
		return 0, err
	}

	roles, err := e.GetRoles(ctx, guildID)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, role := range roles {
		if member.HasRole(role.ID) {
			highest = mathUtil.MaxInt(highest, role.Position)
		}
	}

	return highest, nil
}

func (e *Endpoint) memberPermissions(ctx context.Context, guildID, userID string) (uint64, error) {
	member, err := e.GetMember(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}

	roles, err := e.GetRoles(ctx, guildID)
	if err != nil {
		return 0, err
	}

	var permissions uint64
	for _, role := range roles {
		if member.HasRole(role.ID) {
			permissions |= role.Permissions
		}
	}

	return permissions, nil
}

func parseRole(obj api.JSON) (Role, error) {
	id, err := obj.GetString("id")
	if err != nil {
		return Role{}, err
	}

	name, err := obj.GetString("name")
	if err != nil {
		return Role{}, err
	}

	position, err := obj.GetInt("position")
	if err != nil {
		return Role{}, err
	}

	// The platform serializes permission bits as a decimal string.
	permissionsStr, err := obj.GetString("permissions")
	if err != nil {
		return Role{}, err
	}

	permissions, err := strconv.ParseUint(permissionsStr, 10, 64)
	if err != nil {
		return Role{}, err
	}

	managed, err := obj.GetBool("managed")
	if err != nil {
		return Role{}, err
	}

	return Role{
		ID:          id,
		Name:        name,
		Position:    position,
		Permissions: permissions,
		Managed:     managed,
	}, nil
}

func parseMember(obj api.JSON) (Member, error) {
	userID, err := obj.GetString("user.id")
	if err != nil {
		return Member{}, err
	}

	// The bot flag is absent for regular accounts.
	bot, _ := obj.GetBool("user.bot")

	roleIDs, err := obj.GetStringArray("roles")
	if err != nil {
		return Member{}, err
	}

	return Member{UserID: userID, Bot: bot, RoleIDs: roleIDs}, nil
}

func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	if limit, ok := e.rateLimitResource.Load(resource); ok {
		if resetAt, ok := limit.Load(identifier); ok {
			if resetAt.After(time.Now()) {
				return wrapRateLimit(resetAt.Unix())
			}

			// If the rate limit is reset, delete the limit for this resource.
			limit.Delete(identifier)
		}
	}

	return nil
}

func (e *Endpoint) checkTooManyRequest(resp *api.Response, resource, identifier string) error {
	if resp.Code == http.StatusTooManyRequests {
		resetAt, err := strconv.Atoi(resp.Header.Get("X-Ratelimit-Reset"))
		if err != nil {
			return err
		}

		resourceLimiter, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
		resourceLimiter.Store(identifier, time.Unix(int64(resetAt), 0))
		return wrapRateLimit(int64(resetAt))
	}

	return nil
}
