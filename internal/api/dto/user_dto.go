package dto

import (
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	UserID    string      `json:"userId"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// SessionResponse describes the verified claims of the caller.
type SessionResponse struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SetRoleRequest payload for role changes.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// UserSummary is an account without its password hash.
type UserSummary struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	SuspendedUntil *time.Time  `json:"suspendedUntil,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NewUserSummary copies the public fields of a user.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		SuspendedUntil: user.SuspendedUntil,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
