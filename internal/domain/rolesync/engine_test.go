package rolesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rolewarden/backend/pkg/api/discord"
	"github.com/rolewarden/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func drain(outcomes <-chan Outcome) map[string]Outcome {
	result := map[string]Outcome{}
	for outcome := range outcomes {
		result[outcome.MemberID] = outcome
	}

	return result
}

func TestEngine_Apply_Idempotence(t *testing.T) {
	var addCalls int32
	endpoint := &testutil.MockDiscordEndpoint{
		AddRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			atomic.AddInt32(&addCalls, 1)
			return nil
		},
	}

	engine := NewEngine(endpoint)
	role := discord.Role{ID: "role-1", Name: "Helpers", Position: 1}
	member := discord.Member{UserID: "user-1"}

	req := Request{
		GuildID:     "guild-1",
		Role:        role,
		Members:     []discord.Member{member},
		Add:         true,
		BotPosition: 5,
	}

	outcomes := drain(engine.Apply(context.Background(), req))
	require.Equal(t, StateApplied, outcomes["user-1"].State)
	require.EqualValues(t, 1, addCalls)

	// The member now holds the role; a second invocation converges without
	// another platform call.
	req.Members = []discord.Member{{UserID: "user-1", RoleIDs: []string{"role-1"}}}
	outcomes = drain(engine.Apply(context.Background(), req))
	require.Equal(t, StateKept, outcomes["user-1"].State)
	require.EqualValues(t, 1, addCalls)
}

func TestEngine_Apply_HierarchyRejection(t *testing.T) {
	endpoint := &testutil.MockDiscordEndpoint{
		AddRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			t.Fatal("no platform call expected for a rejected role")
			return nil
		},
	}

	engine := NewEngine(endpoint)
	members := []discord.Member{
		{UserID: "user-1"},
		{UserID: "user-2"},
		{UserID: "user-3", RoleIDs: []string{"role-1"}},
	}

	// The role sits at the bot's own position; every member is rejected
	// regardless of current membership state, including the one already
	// holding it.
	outcomes := drain(engine.Apply(context.Background(), Request{
		GuildID:     "guild-1",
		Role:        discord.Role{ID: "role-1", Position: 5},
		Members:     members,
		Add:         true,
		BotPosition: 5,
	}))

	require.Len(t, outcomes, 3)
	for _, outcome := range outcomes {
		require.Equal(t, StateRejected, outcome.State)
	}

	// Managed roles are equally untouchable.
	outcomes = drain(engine.Apply(context.Background(), Request{
		GuildID:     "guild-1",
		Role:        discord.Role{ID: "role-2", Position: 1, Managed: true},
		Members:     members,
		Add:         true,
		BotPosition: 5,
	}))

	require.Len(t, outcomes, 3)
	for _, outcome := range outcomes {
		require.Equal(t, StateRejected, outcome.State)
	}
}

func TestEngine_Apply_PartialFailureIsolation(t *testing.T) {
	transient := errors.New("connection reset")
	endpoint := &testutil.MockDiscordEndpoint{
		AddRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			if userID == "user-2" {
				return transient
			}

			return nil
		},
	}

	engine := NewEngine(endpoint)
	outcomes := drain(engine.Apply(context.Background(), Request{
		GuildID: "guild-1",
		Role:    discord.Role{ID: "role-1", Position: 1},
		Members: []discord.Member{
			{UserID: "user-1"},
			{UserID: "user-2"},
			{UserID: "user-3"},
		},
		Add:         true,
		BotPosition: 5,
	}))

	require.Len(t, outcomes, 3)
	require.Equal(t, StateApplied, outcomes["user-1"].State)
	require.Equal(t, StateFailed, outcomes["user-2"].State)
	require.ErrorIs(t, outcomes["user-2"].Err, transient)
	require.Equal(t, StateApplied, outcomes["user-3"].State)
}

func TestEngine_Apply_EveryoneAccounting(t *testing.T) {
	engine := NewEngine(&testutil.MockDiscordEndpoint{})

	// Two of five members already hold the role.
	members := []discord.Member{
		{UserID: "user-1", RoleIDs: []string{"role-1"}},
		{UserID: "user-2"},
		{UserID: "user-3", RoleIDs: []string{"role-1"}},
		{UserID: "user-4"},
		{UserID: "user-5"},
	}

	summary := Summarize(engine.Apply(context.Background(), Request{
		GuildID:     "guild-1",
		Role:        discord.Role{ID: "role-1", Position: 1},
		Members:     members,
		Add:         true,
		BotPosition: 5,
		FanOut:      2,
	}))

	require.Equal(t, 2, summary.Kept)
	require.Equal(t, 3, summary.Applied)
	require.Equal(t, len(members), summary.Total())
}

func TestEngine_Apply_Cancellation(t *testing.T) {
	engine := NewEngine(&testutil.MockDiscordEndpoint{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := drain(engine.Apply(ctx, Request{
		GuildID:     "guild-1",
		Role:        discord.Role{ID: "role-1", Position: 1},
		Members:     []discord.Member{{UserID: "user-1"}, {UserID: "user-2"}},
		Add:         true,
		BotPosition: 5,
	}))

	// No member is scheduled after cancellation and the stream still closes.
	require.Empty(t, outcomes)
}

func TestEngine_Apply_FanOutBound(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	endpoint := &testutil.MockDiscordEndpoint{
		AddRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		},
	}

	engine := NewEngine(endpoint)

	members := make([]discord.Member, 10)
	for i := range members {
		members[i] = discord.Member{UserID: string(rune('a' + i))}
	}

	summary := Summarize(engine.Apply(context.Background(), Request{
		GuildID:     "guild-1",
		Role:        discord.Role{ID: "role-1", Position: 1},
		Members:     members,
		Add:         true,
		BotPosition: 5,
		FanOut:      2,
	}))

	require.Equal(t, 10, summary.Applied)

	mu.Lock()
	defer mu.Unlock()
	require.LessOrEqual(t, maxInFlight, 2)
}
