package access

import (
	"testing"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePolicyMatchesCapabilityTable(t *testing.T) {
	roles := append([]string{"pharmacist"}, allRoles...)

	for key, c := range capabilityTable {
		for _, role := range roles {
			_, want := c.roles[role]
			got, err := roleMayPerform(rolePolicy, role, key.resourceType, key.action)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s %s %s", role, key.action, key.resourceType)
		}
	}
}

func TestRolePolicyRejectsUnlistedPairs(t *testing.T) {
	got, err := roleMayPerform(rolePolicy, constvars.RoleAdmin, "invoices", contracts.ActionList)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestPolicyRules(t *testing.T) {
	table := map[capabilityKey]capability{
		{constvars.ResourcePatients, contracts.ActionDelete}: {roles: roleSet(constvars.RoleAdmin)},
		{constvars.ResourceUsers, contracts.ActionView}:      {roles: roleSet(constvars.RoleNurse, constvars.RoleDoctor)},
	}

	assert.Equal(t, [][]string{
		{constvars.RoleAdmin, constvars.ResourcePatients, string(contracts.ActionDelete)},
		{constvars.RoleDoctor, constvars.ResourceUsers, string(contracts.ActionView)},
		{constvars.RoleNurse, constvars.ResourceUsers, string(contracts.ActionView)},
	}, policyRules(table))

	enforcer, err := newRolePolicy(map[capabilityKey]capability{})
	require.NoError(t, err)
	got, err := roleMayPerform(enforcer, constvars.RoleAdmin, constvars.ResourceUsers, contracts.ActionList)
	require.NoError(t, err)
	assert.False(t, got)
}
