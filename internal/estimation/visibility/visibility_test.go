package visibility

import (
	"testing"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRole(t *testing.T) {
	tests := []struct {
		role string
		want Level
	}{
		{"ADMIN", FinanceOnly},
		{"admin", FinanceOnly},
		{" Manager ", PresalesAndFinance},
		{"USER", Public},
		{"", Public},
		{"FINANCE_ONLY", Public},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, ForRole(tt.role))
		})
	}
}

func TestForRoles_TakesHighest(t *testing.T) {
	assert.Equal(t, Public, ForRoles(nil))
	assert.Equal(t, PresalesAndFinance, ForRoles([]string{"user", "manager"}))
	assert.Equal(t, FinanceOnly, ForRoles([]string{"manager", "offline_access", "admin"}))
	assert.Equal(t, FinanceOnly, ForIdentity(models.Identity{Roles: []string{"ADMIN"}}))
}

func TestLevel_Includes(t *testing.T) {
	assert.True(t, FinanceOnly.Includes(PresalesAndFinance))
	assert.True(t, PresalesAndFinance.Includes(PresalesAndFinance))
	assert.False(t, Public.Includes(PresalesAndFinance))
	assert.False(t, Level("bogus").Includes(PresalesAndFinance))
}

func TestAuthorize(t *testing.T) {
	project := models.ProjectOwnership{ProjectID: "proj-1", OwnerID: "user-1"}

	tests := []struct {
		name    string
		id      models.Identity
		allowed bool
	}{
		{name: "owner", id: models.Identity{UserID: "user-1", Roles: []string{"USER"}}, allowed: true},
		{name: "admin not owner", id: models.Identity{UserID: "user-9", Roles: []string{"ADMIN"}}, allowed: true},
		{name: "manager not owner", id: models.Identity{UserID: "user-9", Roles: []string{"MANAGER"}}},
		{name: "empty user id", id: models.Identity{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.id, project)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeAuthorizationDenied, stdErr.Code)
		})
	}

	require.Error(t, Authorize(models.Identity{}, models.ProjectOwnership{ProjectID: "p"}))
}
