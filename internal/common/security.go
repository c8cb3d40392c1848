package common

import (
	"context"
	"sync/atomic"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/internal/repository"
	"github.com/rolewarden/backend/pkg/errorx"
	"github.com/rolewarden/backend/pkg/xcontext"
)

// securitySnapshot is an immutable view of the privilege lists. Readers
// always see a complete snapshot, never a partially loaded one.
type securitySnapshot struct {
	bannedGuilds map[string]struct{}
	bannedUsers  map[string]struct{}
	contributors map[string]struct{}
	botAdmins    map[string]struct{}
}

type SecurityStore struct {
	guildRepo      repository.GuildRepository
	userAccessRepo repository.UserAccessRepository

	snapshot atomic.Pointer[securitySnapshot]
}

func NewSecurityStore(
	guildRepo repository.GuildRepository,
	userAccessRepo repository.UserAccessRepository,
) *SecurityStore {
	store := &SecurityStore{
		guildRepo:      guildRepo,
		userAccessRepo: userAccessRepo,
	}

	store.snapshot.Store(&securitySnapshot{
		bannedGuilds: map[string]struct{}{},
		bannedUsers:  map[string]struct{}{},
		contributors: map[string]struct{}{},
		botAdmins:    map[string]struct{}{},
	})

	return store
}

// Load fetches all privilege lists and swaps them in as a unit. On failure
// the previous snapshot stays intact and resolvers keep answering from
// stale-but-valid data.
func (s *SecurityStore) Load(ctx context.Context) error {
	bannedGuilds, err := s.guildRepo.GetBanned(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get banned guilds: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot reload security lists")
	}

	bannedUsers, err := s.userAccessRepo.GetBanned(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get banned users: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot reload security lists")
	}

	contributors, err := s.userAccessRepo.GetContributors(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get contributors: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot reload security lists")
	}

	botAdmins, err := s.userAccessRepo.GetBotAdmins(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bot admins: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot reload security lists")
	}

	next := &securitySnapshot{
		bannedGuilds: make(map[string]struct{}, len(bannedGuilds)),
		bannedUsers:  make(map[string]struct{}, len(bannedUsers)),
		contributors: make(map[string]struct{}, len(contributors)),
		botAdmins:    make(map[string]struct{}, len(botAdmins)),
	}

	for _, guild := range bannedGuilds {
		next.bannedGuilds[guild.DiscordID] = struct{}{}
	}

	for _, user := range bannedUsers {
		next.bannedUsers[user.DiscordID] = struct{}{}
	}

	for _, user := range contributors {
		next.contributors[user.DiscordID] = struct{}{}
	}

	for _, user := range botAdmins {
		next.botAdmins[user.DiscordID] = struct{}{}
	}

	s.snapshot.Store(next)
	return nil
}

// IsGuildBanned is the pre-flight admission check. The bot refuses to act
// inside banned guilds regardless of actor rank.
func (s *SecurityStore) IsGuildBanned(discordID string) bool {
	_, ok := s.snapshot.Load().bannedGuilds[discordID]
	return ok
}

func (s *SecurityStore) isBannedUser(discordID string) bool {
	_, ok := s.snapshot.Load().bannedUsers[discordID]
	return ok
}

func (s *SecurityStore) isContributor(discordID string) bool {
	_, ok := s.snapshot.Load().contributors[discordID]
	return ok
}

func (s *SecurityStore) isBotAdmin(discordID string) bool {
	_, ok := s.snapshot.Load().botAdmins[discordID]
	return ok
}

// Actor is the user identity a rank is resolved for.
type Actor struct {
	ID  string
	Bot bool
}

// Scope is the optional guild context of a resolution. A nil scope makes the
// guild tiers unreachable.
type Scope struct {
	GuildID string
	OwnerID string

	// IsAdministrator answers whether a member holds administrator
	// authority in this guild.
	IsAdministrator func(ctx context.Context, userID string) (bool, error)
}

type rankCheck struct {
	name  string
	rank  entity.Rank
	match func(ctx context.Context, actor Actor, scope *Scope) bool
}

// RankResolver resolves the authority rank of an actor. The checks run in a
// fixed precedence order with the most privileged and most specific
// overrides first; the first match wins. Note that the banned-user check
// sits above the guild tiers, so a banned user who owns a guild still
// resolves to banned. That precedence is a deliberate policy, do not reorder
// the chain.
type RankResolver struct {
	checks []rankCheck
}

func NewRankResolver(store *SecurityStore, creatorID string) *RankResolver {
	return &RankResolver{
		checks: []rankCheck{
			{
				name: "creator",
				rank: entity.RankCreator,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return creatorID != "" && actor.ID == creatorID
				},
			},
			{
				name: "bot",
				rank: entity.RankBot,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return actor.Bot
				},
			},
			{
				name: "contributor",
				rank: entity.RankContributor,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return store.isContributor(actor.ID)
				},
			},
			{
				name: "bot_admin",
				rank: entity.RankBotAdmin,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return store.isBotAdmin(actor.ID)
				},
			},
			{
				name: "banned_user",
				rank: entity.RankBannedUser,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return store.isBannedUser(actor.ID)
				},
			},
			{
				name: "guild_owner",
				rank: entity.RankGuildOwner,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					return scope != nil && scope.OwnerID == actor.ID
				},
			},
			{
				name: "guild_admin",
				rank: entity.RankGuildAdmin,
				match: func(ctx context.Context, actor Actor, scope *Scope) bool {
					if scope == nil || scope.IsAdministrator == nil {
						return false
					}

					ok, err := scope.IsAdministrator(ctx, actor.ID)
					if err != nil {
						xcontext.Logger(ctx).Warnf("Cannot check administrator authority: %v", err)
						return false
					}

					return ok
				},
			},
		},
	}
}

// Resolve walks the precedence chain and returns the first matching rank.
// It is a pure function of the actor, the scope answers and the current
// store snapshot.
func (r *RankResolver) Resolve(ctx context.Context, actor Actor, scope *Scope) entity.Rank {
	for _, check := range r.checks {
		if check.match(ctx, actor, scope) {
			xcontext.Logger(ctx).Debugf("Actor %s matched the %s check", actor.ID, check.name)
			return check.rank
		}
	}

	return entity.RankUser
}
