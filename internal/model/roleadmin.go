package model

// Actor identifies the user a command was issued by. The command layer owns
// authentication; this core only classifies the identity it is handed.
type Actor struct {
	ID  string `json:"id"`
	Bot bool   `json:"bot"`
}

type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type ListRolesRequest struct {
	GuildID string `json:"guild_id"`
	Actor   Actor  `json:"actor"`
}

type ListRolesResponse struct {
	Roles []Role `json:"roles"`
}

type MutateRoleRequest struct {
	GuildID  string `json:"guild_id"`
	Actor    Actor  `json:"actor"`
	RoleName string `json:"role_name"`

	// Target is a user id, or the everyone keyword for the full roster.
	Target string `json:"target"`
}

type MutateRoleResponse struct {
	RoleName string `json:"role_name"`
	Target   string `json:"target"`
	Applied  int    `json:"applied"`
	Kept     int    `json:"kept"`
	Rejected int    `json:"rejected"`
	Failed   int    `json:"failed"`
	Total    int    `json:"total"`
}

type SeniorityRequest struct {
	GuildID string `json:"guild_id"`
	Actor   Actor  `json:"actor"`
}

type SeniorityResponse struct{}
