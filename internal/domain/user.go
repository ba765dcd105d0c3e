package domain

import "time"

// User is the credential record for an account.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	SuspendedUntil *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SuspendedAt reports whether the account is suspended at the given instant.
func (u *User) SuspendedAt(now time.Time) bool {
	return u.SuspendedUntil != nil && now.Before(*u.SuspendedUntil)
}
