package enums

import "strings"

// UserRole is a closed set; unknown role strings are rejected at the edges
// rather than stored.
type UserRole string

const (
	UserRoleUser       UserRole = "USER"
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleSuperAdmin UserRole = "SUPERADMIN"
)

var userRoles = []UserRole{
	UserRoleUser,
	UserRoleAdmin,
	UserRoleSuperAdmin,
}

func UserRoles() []UserRole {
	out := make([]UserRole, len(userRoles))
	copy(out, userRoles)
	return out
}

func (r UserRole) IsValid() bool {
	for _, known := range userRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// AgentCapable reports whether this role may hold listings and be the
// target of an appointment assignment.
func (r UserRole) AgentCapable() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

func ParseUserRole(value string) (UserRole, bool) {
	candidate := UserRole(strings.ToUpper(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, true
	}
	return "", false
}

// AnyAgentCapable reports whether at least one of the roles can act as an
// agent.
func AnyAgentCapable(roles []UserRole) bool {
	for _, r := range roles {
		if r.AgentCapable() {
			return true
		}
	}
	return false
}
