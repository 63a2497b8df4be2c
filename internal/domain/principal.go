package domain

import "strings"

// Role identifies which side of the marketplace a caller acts for.
type Role string

const (
	RoleTalent    Role = "talent"
	RoleRecruiter Role = "recruiter"
)

// ParseRole normalizes a raw role value and reports whether it is a marketplace role.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Valid reports whether the role is talent or recruiter.
func (r Role) Valid() bool {
	return r == RoleTalent || r == RoleRecruiter
}

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT    AuthMethod = "jwt"
	AuthMethodHeader AuthMethod = "header"
)

// Principal captures normalized caller identity independent of auth mechanism.
type Principal struct {
	ID         string
	Role       Role
	AuthMethod AuthMethod
	Email      string
	Name       string
}

// Is reports whether the principal acts with the given role.
func (p Principal) Is(role Role) bool {
	return p.Role == role
}
