// Package memory provides in-process store implementations used when no
// external database is configured and throughout the test suites.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// UserRepository is a mutex-guarded map keyed by user id.
type UserRepository struct {
	mu    sync.RWMutex
	seq   int
	users map[string]*userRecord
	now   func() time.Time
}

type userRecord struct {
	user domain.User
	seq  int
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository returns an empty store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*userRecord), now: time.Now}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.users {
		if rec.user.Email == user.Email {
			return fmt.Errorf("%w: email already exists", domain.ErrConflict)
		}
	}
	now := r.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.seq++
	r.users[user.ID] = &userRecord{user: *user, seq: r.seq}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	user := rec.user
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.user.Email == email {
			user := rec.user
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	records := make([]userRecord, 0, len(r.users))
	for _, rec := range r.users {
		records = append(records, *rec)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].user.CreatedAt.Equal(records[j].user.CreatedAt) {
			return records[i].user.CreatedAt.After(records[j].user.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.user)
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	rec.user.Role = role
	rec.user.UpdatedAt = r.now()
	return nil
}

func (r *UserRepository) Suspend(_ context.Context, id string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	rec.user.SuspendedUntil = &until
	rec.user.UpdatedAt = r.now()
	return nil
}

// Count returns the number of stored users with the given email.
func (r *UserRepository) Count(email string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.users {
		if rec.user.Email == email {
			n++
		}
	}
	return n
}
