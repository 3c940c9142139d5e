package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/casalia/realty-backend/pkg/enums"
)

// RoleArray stores a closed set of user roles as a Postgres text array
// literal so the same column works under sqlite in tests.
type RoleArray []enums.UserRole

func (a *RoleArray) Scan(src any) error {
	if src == nil {
		*a = RoleArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("RoleArray: unsupported Scan type %T", src)
	}
}

func (a RoleArray) Value() (driver.Value, error) {
	// Postgres array literal: {ADMIN,USER}
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, role := range a {
		parts = append(parts, role.String())
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (a RoleArray) Contains(role enums.UserRole) bool {
	for _, r := range a {
		if r == role {
			return true
		}
	}
	return false
}

func (a RoleArray) Roles() []enums.UserRole {
	out := make([]enums.UserRole, len(a))
	copy(out, a)
	return out
}

func (a *RoleArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "{}" || s == "" {
		*a = RoleArray{}
		return nil
	}
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		*a = RoleArray{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]enums.UserRole, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(strings.Trim(r, `"`))
		role, ok := enums.ParseUserRole(r)
		if !ok {
			return fmt.Errorf("RoleArray: unknown role %q", r)
		}
		out = append(out, role)
	}
	*a = RoleArray(out)
	return nil
}
