package model

import (
	"github.com/rolewarden/backend/internal/domain/rolesync"
	"github.com/rolewarden/backend/pkg/api/discord"
)

func ConvertRole(role discord.Role) Role {
	return Role{
		ID:       role.ID,
		Name:     role.Name,
		Position: role.Position,
	}
}

func ConvertSummary(roleName, target string, summary rolesync.Summary) MutateRoleResponse {
	return MutateRoleResponse{
		RoleName: roleName,
		Target:   target,
		Applied:  summary.Applied,
		Kept:     summary.Kept,
		Rejected: summary.Rejected,
		Failed:   summary.Failed,
		Total:    summary.Total(),
	}
}
