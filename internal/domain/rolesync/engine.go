package rolesync

import (
	"context"

	"github.com/rolewarden/backend/pkg/api/discord"
	"github.com/rolewarden/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type State string

const (
	// StateApplied means the mutation was issued and accepted.
	StateApplied State = "applied"

	// StateKept means the member already was in the desired state, no call
	// was issued.
	StateKept State = "kept"

	// StateRejected means the role sits at or above the bot's own highest
	// role, or is integration-managed; the bot may not touch it.
	StateRejected State = "rejected"

	// StateFailed means the platform call failed transiently. Other members
	// of the same bulk request are unaffected.
	StateFailed State = "failed"
)

type Outcome struct {
	MemberID string
	State    State
	Err      error
}

// Request describes one bulk mutation. Members is a snapshot of the targets
// at invocation time; a retry must retake it.
type Request struct {
	GuildID string
	Role    discord.Role
	Members []discord.Member
	Add     bool

	// BotPosition is the highest role position held by the bot in the
	// guild. Only roles strictly below it can be mutated.
	BotPosition int

	// FanOut bounds concurrent in-flight platform calls.
	FanOut int
}

// Engine applies role mutations member by member. It does not check actor
// authorization; callers gate intents before invoking it.
type Engine struct {
	endpoint discord.IEndpoint
}

func NewEngine(endpoint discord.IEndpoint) *Engine {
	return &Engine{endpoint: endpoint}
}

// Apply processes every member of the request independently and streams one
// outcome per member. The returned channel is closed when the request is
// drained; it is a finite sequence and is not restartable. Cancelling the
// context stops scheduling further members, outcomes already produced stand
// and applied mutations are not rolled back.
func (e *Engine) Apply(ctx context.Context, req Request) <-chan Outcome {
	fanOut := req.FanOut
	if fanOut <= 0 {
		fanOut = 1
	}

	out := make(chan Outcome)
	go func() {
		defer close(out)

		eg := &errgroup.Group{}
		eg.SetLimit(fanOut)

		for _, member := range req.Members {
			if ctx.Err() != nil {
				xcontext.Logger(ctx).Infof(
					"Bulk role mutation of guild %s cancelled with members remaining", req.GuildID)
				break
			}

			member := member
			eg.Go(func() error {
				out <- e.processMember(ctx, req, member)
				return nil
			})
		}

		eg.Wait()
	}()

	return out
}

func (e *Engine) processMember(ctx context.Context, req Request, member discord.Member) Outcome {
	// An untouchable role is rejected for every member, even those already
	// in the desired state.
	if req.Role.Managed || req.Role.Position >= req.BotPosition {
		return Outcome{MemberID: member.UserID, State: StateRejected}
	}

	// Repeated invocations converge instead of duplicating grants.
	if member.HasRole(req.Role.ID) == req.Add {
		return Outcome{MemberID: member.UserID, State: StateKept}
	}

	var err error
	if req.Add {
		err = e.endpoint.AddRole(ctx, req.GuildID, member.UserID, req.Role.ID)
	} else {
		err = e.endpoint.RemoveRole(ctx, req.GuildID, member.UserID, req.Role.ID)
	}

	if err != nil {
		xcontext.Logger(ctx).Warnf(
			"Cannot mutate role %s of member %s: %v", req.Role.ID, member.UserID, err)
		return Outcome{MemberID: member.UserID, State: StateFailed, Err: err}
	}

	return Outcome{MemberID: member.UserID, State: StateApplied}
}

type Summary struct {
	Applied  int
	Kept     int
	Rejected int
	Failed   int
}

// Summarize drains an outcome stream into aggregate counts.
func Summarize(outcomes <-chan Outcome) Summary {
	var summary Summary
	for outcome := range outcomes {
		switch outcome.State {
		case StateApplied:
			summary.Applied++
		case StateKept:
			summary.Kept++
		case StateRejected:
			summary.Rejected++
		case StateFailed:
			summary.Failed++
		}
	}

	return summary
}

func (s Summary) Total() int {
	return s.Applied + s.Kept + s.Rejected + s.Failed
}
