package domain

import "strings"

// Role is the closed set of identities the access rules know about.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role, in ascending privilege order.
var Roles = []Role{RoleMember, RoleTrainer, RoleAdmin}

// AnyRole is the requirement set for routes open to every authenticated user.
var AnyRole = []Role{RoleMember, RoleTrainer, RoleAdmin}

// ParseRole converts a raw string into a Role. Matching is case-insensitive
// and surrounding whitespace is ignored.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return r, nil
	default:
		return "", &ValidationError{
			Message: "invalid role",
			Issues:  []FieldIssue{{Field: "role", Message: "role must be one of: member trainer admin"}},
		}
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	default:
		return false
	}
}

// SeesAllSessions reports whether the role may read and log into sessions it
// does not own.
func (r Role) SeesAllSessions() bool {
	switch r {
	case RoleTrainer, RoleAdmin:
		return true
	case RoleMember:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
