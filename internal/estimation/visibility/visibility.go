// Package visibility derives the financial visibility tier of a caller and
// guards project access. The tier is a pure function of the caller's server
// resolved roles and is never read from a request.
package visibility

import (
	"strings"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"
)

// Level is an authorization tier controlling which costing fields are returned.
type Level string

const (
	Public             Level = "PUBLIC"
	PresalesAndFinance Level = "PRESALES_AND_FINANCE"
	FinanceOnly        Level = "FINANCE_ONLY"
)

// Rank orders levels; a higher rank sees a superset of fields.
func (l Level) Rank() int {
	switch l {
	case FinanceOnly:
		return 2
	case PresalesAndFinance:
		return 1
	default:
		return 0
	}
}

// Includes reports whether l grants at least other.
func (l Level) Includes(other Level) bool {
	return l.Rank() >= other.Rank()
}

// ForRole maps a single role. Unknown roles get Public.
func ForRole(role string) Level {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case models.RoleAdmin:
		return FinanceOnly
	case models.RoleManager:
		return PresalesAndFinance
	default:
		return Public
	}
}

// ForRoles returns the highest level granted by any role.
func ForRoles(roles []string) Level {
	level := Public
	for _, r := range roles {
		if l := ForRole(r); l.Rank() > level.Rank() {
			level = l
		}
	}
	return level
}

// ForIdentity is ForRoles over the identity's roles.
func ForIdentity(id models.Identity) Level {
	return ForRoles(id.Roles)
}

// Authorize allows the project owner and admins. Everyone else is denied
// before any figures are computed.
func Authorize(id models.Identity, ownership models.ProjectOwnership) error {
	if id.HasRole(models.RoleAdmin) {
		return nil
	}
	if id.UserID != "" && id.UserID == ownership.OwnerID {
		return nil
	}
	return errors.NewAuthorizationDeniedError(ownership.ProjectID)
}
