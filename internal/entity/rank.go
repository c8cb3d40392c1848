package entity

// Rank is the bot's internal authority classification of an actor. It is
// independent of platform-native permission bits and forms a total order.
type Rank int

const (
	RankUser Rank = iota
	RankBannedUser
	RankGuildAdmin
	RankGuildOwner
	RankBotAdmin
	RankContributor
	RankBot
	RankCreator
)

// IsAtLeast reports whether r carries at least the authority of other. It is
// reflexive and monotone with the declaration order above.
func (r Rank) IsAtLeast(other Rank) bool {
	return r >= other
}

func (r Rank) String() string {
	switch r {
	case RankUser:
		return "user"
	case RankBannedUser:
		return "banned_user"
	case RankGuildAdmin:
		return "guild_admin"
	case RankGuildOwner:
		return "guild_owner"
	case RankBotAdmin:
		return "bot_admin"
	case RankContributor:
		return "contributor"
	case RankBot:
		return "bot"
	case RankCreator:
		return "creator"
	}

	return "unknown"
}
