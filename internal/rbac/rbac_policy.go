package rbac

import "go-erp/internal/workflow"

type Policy struct {
	Role     workflow.Role
	Resource string
	Action   string
}

var allRoles = []workflow.Role{workflow.RoleAdmin, workflow.RoleHR, workflow.RoleEmployee}
var approvers = []workflow.Role{workflow.RoleAdmin, workflow.RoleHR}
var adminOnly = []workflow.Role{workflow.RoleAdmin}

// grant expands one resource/action pair over roles.
func grant(resource, action string, roles []workflow.Role) []Policy {
	out := make([]Policy, 0, len(roles))
	for _, r := range roles {
		out = append(out, Policy{Role: r, Resource: resource, Action: action})
	}
	return out
}

// DefaultPolicies is the route-level matrix. Whether a transition is legal
// for the caller is decided by the workflow package, so every role may reach
// the transition endpoints.
func DefaultPolicies() []Policy {
	var p []Policy
	for _, resource := range []string{workflow.KindLeave.Resource, workflow.KindWFH.Resource} {
		for _, action := range []string{"read", "create", "update", "transition", "delete"} {
			p = append(p, grant(resource, action, allRoles)...)
		}
	}
	p = append(p, grant("balance", "read", allRoles)...)
	p = append(p, grant("balance", "read_all", approvers)...)
	p = append(p, grant("notification", "read", allRoles)...)
	p = append(p, grant("employee", "read", approvers)...)
	p = append(p, grant("employee", "create", adminOnly)...)
	p = append(p, grant("employee", "update", adminOnly)...)
	p = append(p, grant("rbac", "read", allRoles)...)
	p = append(p, grant("rbac", "enforce", approvers)...)
	return p
}
