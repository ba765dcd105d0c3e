package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// AdminService exposes credential administration to admins.
type AdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewAdminService constructs the service.
func NewAdminService(users repository.UserRepository, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{users: users, dispatcher: dispatcher}
}

// ListUsers returns every account, newest first. Callers must not expose PasswordHash.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.Identity) ([]domain.User, error) {
	if err := auth.AuthorizeAdministration(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetRole changes the role of a user.
func (s *AdminService) SetRole(ctx context.Context, actor *domain.Identity, userID string, role domain.Role) error {
	if err := auth.AuthorizeAdministration(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: role must be one of user, moderator, admin", domain.ErrInvalidInput)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleChanged,
			ActorID:   actor.UserID,
			SubjectID: userID,
			Timestamp: time.Now(),
			Payload:   events.UserRoleChangedPayload{OldRole: user.Role, NewRole: role},
		})
	}
	return nil
}
