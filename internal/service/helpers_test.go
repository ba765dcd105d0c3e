package service_test

import (
	"context"
	"testing"

	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/repository/memory"
	"github.com/spec-kit/report-tracker/internal/service"
)

const testBcryptCost = 4

type fixture struct {
	users   *memory.UserRepository
	reports *memory.ReportRepository
	history *memory.ReportHistoryRepository
	events  *[]events.Event
	tokens  *auth.TokenManager
	auth    *service.AuthService
	report  *service.ReportService
	admin   *service.AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	users := memory.NewUserRepository()
	history := memory.NewReportHistoryRepository()
	reports := memory.NewReportRepository(history)

	published := []events.Event{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	return &fixture{
		users:   users,
		reports: reports,
		history: history,
		events:  &published,
		tokens:  tokens,
		auth:    service.NewAuthService(users, tokens, testBcryptCost),
		report: service.NewReportService(service.ReportDependencies{
			ReportRepo:  reports,
			HistoryRepo: history,
			UserRepo:    users,
			Dispatcher:  dispatcher,
		}),
		admin: service.NewAdminService(users, dispatcher),
	}
}

// registerAs creates an account and returns the identity a verified token would carry.
func (f *fixture) registerAs(t *testing.T, username string, role domain.Role) *domain.Identity {
	t.Helper()
	ctx := context.Background()
	user, err := f.auth.Register(ctx, username, username+"@x.com", "pw")
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	if role != domain.RoleUser {
		if err := f.users.UpdateRole(ctx, user.ID, role); err != nil {
			t.Fatalf("UpdateRole: %v", err)
		}
	}
	return &domain.Identity{UserID: user.ID, Email: user.Email, Role: role}
}

func (f *fixture) createReport(t *testing.T, actor *domain.Identity, title string) *domain.Report {
	t.Helper()
	report, err := f.report.Create(context.Background(), actor, service.CreateReportInput{
		Title:       title,
		Description: "details",
		Type:        "bug",
	})
	if err != nil {
		t.Fatalf("Create %s: %v", title, err)
	}
	return report
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
