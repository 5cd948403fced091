package access

import (
	"fmt"
	"medblock-service/internal/app/contracts"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// sub = role, obj = resource type, act = action.
const rolePolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rolePolicy answers the role column of the capability table.
var rolePolicy = mustRolePolicy(capabilityTable)

func mustRolePolicy(table map[capabilityKey]capability) *casbin.Enforcer {
	enforcer, err := newRolePolicy(table)
	if err != nil {
		panic(fmt.Sprintf("access: build role policy: %v", err))
	}
	return enforcer
}

func newRolePolicy(table map[capabilityKey]capability) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rolePolicyModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	rules := policyRules(table)
	if len(rules) == 0 {
		return enforcer, nil
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// policyRules flattens the table into sorted (role, resource, action) rows.
func policyRules(table map[capabilityKey]capability) [][]string {
	var rules [][]string
	for key, c := range table {
		for role := range c.roles {
			rules = append(rules, []string{role, key.resourceType, string(key.action)})
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		for k := range rules[i] {
			if rules[i][k] != rules[j][k] {
				return rules[i][k] < rules[j][k]
			}
		}
		return false
	})
	return rules
}

func roleMayPerform(enforcer *casbin.Enforcer, role, resourceType string, action contracts.Action) (bool, error) {
	return enforcer.Enforce(role, resourceType, string(action))
}
