// Package access holds the role model shared by the identity and otp modules.
package access

import (
	"context"
	"strings"
)

// Role is the role stored on an account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole normalizes s to a Role. The result may be invalid; check Valid.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Requirement is the role level an endpoint asks for.
type Requirement string

const (
	RequireAdmin Requirement = "admin"
	RequireUser  Requirement = "user"
)

func (r Requirement) String() string {
	return string(r)
}

// Principal is the resolved account behind an authenticated request.
type Principal struct {
	ID       int64
	Username string
	Role     Role
	Email    string
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Authorizer resolves the caller of ctx and checks it against a requirement.
type Authorizer interface {
	Authorize(ctx context.Context, req Requirement) (*Principal, error)
}
