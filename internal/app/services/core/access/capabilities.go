package access

import (
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
)

type scope int

const (
	scopeNone scope = iota
	// scopeSelf: the caller must own the target record; admins pass.
	scopeSelf
	// scopeRelationship: per-role relationship with the target patient.
	scopeRelationship
)

type capability struct {
	roles            map[string]struct{}
	scope            scope
	requiresVerified bool
	noSelfTarget     bool
}

type capabilityKey struct {
	resourceType string
	action       contracts.Action
}

var (
	allRoles      = []string{constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse, constvars.RoleFrontDesk}
	adminOnly     = []string{constvars.RoleAdmin}
	professionals = []string{constvars.RoleDoctor, constvars.RoleNurse}
	clinicalStaff = []string{constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse}
)

func roleSet(roles ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// capabilityTable is built once; nothing writes to it after init.
var capabilityTable = buildCapabilityTable()

func buildCapabilityTable() map[capabilityKey]capability {
	users := constvars.ResourceUsers
	patients := constvars.ResourcePatients

	return map[capabilityKey]capability{
		{users, contracts.ActionList}:                    {roles: roleSet(adminOnly...)},
		{users, contracts.ActionView}:                    {roles: roleSet(allRoles...), scope: scopeSelf},
		{users, contracts.ActionUpdate}:                  {roles: roleSet(allRoles...), scope: scopeSelf},
		{users, contracts.ActionChangeRole}:              {roles: roleSet(adminOnly...), noSelfTarget: true},
		{users, contracts.ActionDeactivate}:              {roles: roleSet(adminOnly...), noSelfTarget: true},
		{users, contracts.ActionActivate}:                {roles: roleSet(adminOnly...), noSelfTarget: true},
		{users, contracts.ActionDelete}:                  {roles: roleSet(adminOnly...), noSelfTarget: true},
		{users, contracts.ActionSubmitVerification}:      {roles: roleSet(professionals...), scope: scopeSelf},
		{users, contracts.ActionReviewVerification}:      {roles: roleSet(adminOnly...), noSelfTarget: true},
		{users, contracts.ActionListPendingVerification}: {roles: roleSet(adminOnly...)},

		{patients, contracts.ActionList}:    {roles: roleSet(allRoles...), scope: scopeRelationship, requiresVerified: true},
		{patients, contracts.ActionView}:    {roles: roleSet(allRoles...), scope: scopeRelationship, requiresVerified: true},
		{patients, contracts.ActionCreate}:  {roles: roleSet(allRoles...), requiresVerified: true},
		{patients, contracts.ActionUpdate}:  {roles: roleSet(clinicalStaff...), scope: scopeRelationship, requiresVerified: true},
		{patients, contracts.ActionDelete}:  {roles: roleSet(adminOnly...)},
		{patients, contracts.ActionRestore}: {roles: roleSet(adminOnly...)},
		{patients, contracts.ActionExport}:  {roles: roleSet(constvars.RoleAdmin, constvars.RoleDoctor), scope: scopeRelationship, requiresVerified: true},
	}
}

func lookupCapability(resourceType string, action contracts.Action) (capability, bool) {
	c, ok := capabilityTable[capabilityKey{resourceType: resourceType, action: action}]
	return c, ok
}
