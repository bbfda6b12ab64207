package domain

import "slices"

// Role is the policy subject a request is evaluated as.
type Role string

const (
	// RoleOperator signs in to the console and manages tenants and configs.
	RoleOperator Role = "operator"

	// RoleAnon is any caller holding only the public API key.
	RoleAnon Role = "anon"
)

var ValidRoles = []Role{RoleOperator, RoleAnon}

func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, Role(role))
}
