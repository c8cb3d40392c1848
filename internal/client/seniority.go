package client

import "context"

// SeniorityCaller manages the time-based seniority roles of a guild. The
// assignment policy lives outside this core; the role-admin domain only
// triggers it.
type SeniorityCaller interface {
	SynchronizeRoles(ctx context.Context, guildID string) error
	CleanupRoles(ctx context.Context, guildID, botID string) error
	CanModify(ctx context.Context, guildID, botID string) (bool, error)
}
