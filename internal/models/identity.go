package models

import "strings"

// Roles recognised by the visibility resolver. Comparison is case-insensitive.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Identity is the authenticated caller as resolved server-side from an access token.
type Identity struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

// ProjectOwnership is the server-held ownership fact for a project.
type ProjectOwnership struct {
	ProjectID string `json:"projectId"`
	OwnerID   string `json:"ownerId"`
}
