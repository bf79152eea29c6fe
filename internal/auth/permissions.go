package auth

import "jobboard_backend/internal/models"

type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionManage Action = "manage"
)

// Permissions is the team role matrix. Editing covers the hiring pipeline
// and job postings, managing covers the team itself and billing.
var Permissions = map[models.TeamRole][]Action{
	models.TeamRoleAdmin:     {ActionView, ActionEdit, ActionManage},
	models.TeamRoleRecruiter: {ActionView, ActionEdit},
	models.TeamRoleViewer:    {ActionView},
}

// Can reports whether role grants action. Unknown roles grant nothing.
func Can(role models.TeamRole, action Action) bool {
	for _, a := range Permissions[role] {
		if a == action {
			return true
		}
	}
	return false
}
