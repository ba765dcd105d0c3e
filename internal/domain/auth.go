package domain

import "time"

// Role enumerates account privileges.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether r is moderator or admin.
func (r Role) Privileged() bool {
	return r == RoleModerator || r == RoleAdmin
}

// Identity is the verified claim set carried by a bearer token.
type Identity struct {
	UserID    string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
