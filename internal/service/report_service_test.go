package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/repository/memory"
	"github.com/spec-kit/report-tracker/internal/service"
)

func TestCreateReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)

	report, err := f.report.Create(ctx, alice, service.CreateReportInput{
		Title:       "  Bug A ",
		Description: "it breaks",
		Type:        "Feature Request",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if report.Status != domain.ReportStatusPending {
		t.Fatalf("expected pending, got %s", report.Status)
	}
	if report.ReporterID != alice.UserID || report.Title != "Bug A" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Type != "feature-request" {
		t.Fatalf("expected canonical type, got %q", report.Type)
	}
	if report.ResolvedBy != nil || report.ResolvedAt != nil {
		t.Fatalf("expected no resolution metadata on a new report")
	}
	if len(*f.events) != 1 || (*f.events)[0].Type != events.EventReportCreated {
		t.Fatalf("expected report_created event, got %+v", *f.events)
	}
}

func TestCreateReportValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)

	if _, err := f.report.Create(ctx, nil, service.CreateReportInput{Title: "t", Description: "d", Type: "bug"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	for name, in := range map[string]service.CreateReportInput{
		"missing title":       {Description: "d", Type: "bug"},
		"missing description": {Title: "t", Type: "bug"},
		"missing type":        {Title: "t", Description: "d"},
		"unusable type":       {Title: "t", Description: "d", Type: "!!!"},
		"unknown reported":    {Title: "t", Description: "d", Type: "bug", ReportedUserID: strPtr("00000000-0000-0000-0000-000000000000")},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := f.report.Create(ctx, alice, in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateReportDuplicateTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	bob := f.registerAs(t, "bob", domain.RoleUser)

	original := f.createReport(t, alice, "Bug A")
	_, err := f.report.Create(ctx, bob, service.CreateReportInput{Title: "Bug A", Description: "other", Type: "feature"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	stored, err := f.report.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.ReporterID != alice.UserID || stored.Description != "details" || stored.Type != "bug" {
		t.Fatalf("expected original report to be unmodified, got %+v", stored)
	}
}

func TestCreateReportBySuspendedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	_ = f.users.Suspend(ctx, alice.UserID, time.Now().Add(time.Hour))

	_, err := f.report.Create(ctx, alice, service.CreateReportInput{Title: "t", Description: "d", Type: "bug"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)
	report := f.createReport(t, alice, "Bug A")

	t.Run("unknown status", func(t *testing.T) {
		if _, err := f.report.Transition(ctx, mod, report.ID, "closed"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		assertStatus(t, f, report.ID, domain.ReportStatusPending)
	})

	t.Run("plain user", func(t *testing.T) {
		if _, err := f.report.Transition(ctx, alice, report.ID, domain.ReportStatusResolved); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		assertStatus(t, f, report.ID, domain.ReportStatusPending)
	})

	t.Run("anonymous", func(t *testing.T) {
		if _, err := f.report.Transition(ctx, nil, report.ID, domain.ReportStatusResolved); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("missing report", func(t *testing.T) {
		if _, err := f.report.Transition(ctx, mod, "00000000-0000-0000-0000-000000000000", domain.ReportStatusResolved); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("moderator", func(t *testing.T) {
		before := time.Now()
		updated, err := f.report.Transition(ctx, mod, report.ID, domain.ReportStatusInvestigating)
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
		if updated.Status != domain.ReportStatusInvestigating {
			t.Fatalf("expected investigating, got %s", updated.Status)
		}
		if updated.ResolvedBy == nil || *updated.ResolvedBy != mod.UserID {
			t.Fatalf("expected resolvedBy to be the moderator, got %v", updated.ResolvedBy)
		}
		if updated.ResolvedAt == nil || updated.ResolvedAt.Before(before) {
			t.Fatalf("expected resolvedAt to be set, got %v", updated.ResolvedAt)
		}
		if updated.Title != report.Title || updated.Description != report.Description || updated.Type != report.Type {
			t.Fatalf("expected content to be untouched")
		}
	})

	t.Run("any state to any state", func(t *testing.T) {
		for _, status := range []domain.ReportStatus{
			domain.ReportStatusResolved,
			domain.ReportStatusPending,
			domain.ReportStatusNeedsReview,
			domain.ReportStatusWontFix,
		} {
			if _, err := f.report.Transition(ctx, mod, report.ID, status); err != nil {
				t.Fatalf("Transition to %s: %v", status, err)
			}
		}
	})

	history, err := f.report.History(ctx, mod, report.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 history entries, got %d", len(history))
	}
	if history[0].OldStatus != domain.ReportStatusPending || history[0].NewStatus != domain.ReportStatusInvestigating {
		t.Fatalf("unexpected first entry %+v", history[0])
	}
	if _, err := f.report.History(ctx, alice, report.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected history to be moderator-only, got %v", err)
	}
}

func TestEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	bob := f.registerAs(t, "bob", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)
	report := f.createReport(t, alice, "Bug A")

	if _, err := f.report.Edit(ctx, bob, report.ID, domain.ReportPatch{Title: strPtr("hijack")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := f.report.Edit(ctx, nil, report.ID, domain.ReportPatch{Title: strPtr("x")}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.report.Edit(ctx, alice, report.ID, domain.ReportPatch{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty patch, got %v", err)
	}
	if _, err := f.report.Edit(ctx, alice, "00000000-0000-0000-0000-000000000000", domain.ReportPatch{Title: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	updated, err := f.report.Edit(ctx, alice, report.ID, domain.ReportPatch{Description: strPtr("new details")})
	if err != nil {
		t.Fatalf("owner Edit: %v", err)
	}
	if updated.Description != "new details" || updated.Title != "Bug A" || updated.Type != "bug" {
		t.Fatalf("expected only description to change, got %+v", updated)
	}
	if updated.UpdatedAt.Before(report.UpdatedAt) {
		t.Fatalf("expected updatedAt to move forward")
	}
	if !updated.CreatedAt.Equal(report.CreatedAt) {
		t.Fatalf("expected createdAt to be immutable")
	}

	updated, err = f.report.Edit(ctx, mod, report.ID, domain.ReportPatch{Title: strPtr("Bug A v2"), Type: strPtr("Feature")})
	if err != nil {
		t.Fatalf("moderator Edit: %v", err)
	}
	if updated.Title != "Bug A v2" || updated.Type != "feature" {
		t.Fatalf("unexpected moderator edit result %+v", updated)
	}
	if updated.Status != domain.ReportStatusPending || updated.ResolvedBy != nil || updated.ResolvedAt != nil {
		t.Fatalf("expected edit to leave status and resolution metadata alone, got %+v", updated)
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	bob := f.registerAs(t, "bob", domain.RoleUser)
	admin := f.registerAs(t, "root", domain.RoleAdmin)
	first := f.createReport(t, alice, "first")
	second := f.createReport(t, alice, "second")

	if err := f.report.Remove(ctx, bob, first.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.report.Remove(ctx, alice, first.ID); err != nil {
		t.Fatalf("owner Remove: %v", err)
	}
	if err := f.report.Remove(ctx, alice, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := f.report.Remove(ctx, admin, second.ID); err != nil {
		t.Fatalf("admin Remove: %v", err)
	}
}

func TestPurgeAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)
	admin := f.registerAs(t, "root", domain.RoleAdmin)
	for _, title := range []string{"a", "b", "c"} {
		f.createReport(t, alice, title)
	}

	for _, actor := range []*domain.Identity{alice, mod} {
		if _, err := f.report.PurgeAll(ctx, actor); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %s, got %v", actor.Role, err)
		}
	}
	if all, _ := f.report.List(ctx, nil); len(all) != 3 {
		t.Fatalf("expected nothing deleted, got %d remaining", len(all))
	}

	deleted, err := f.report.PurgeAll(ctx, admin)
	if err != nil {
		t.Fatalf("PurgeAll: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
	if all, _ := f.report.List(ctx, nil); len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func TestModerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	mallory := f.registerAs(t, "mallory", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)

	plain := f.createReport(t, alice, "plain")
	abuse, err := f.report.Create(ctx, alice, service.CreateReportInput{
		Title:          "abuse",
		Description:    "spam",
		Type:           "abuse",
		ReportedUserID: &mallory.UserID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("resolve alias", func(t *testing.T) {
		updated, err := f.report.Moderate(ctx, mod, plain.ID, service.ModerationInput{Action: "resolve"})
		if err != nil {
			t.Fatalf("Moderate: %v", err)
		}
		if updated.Status != domain.ReportStatusResolved || updated.ActionTaken == nil || *updated.ActionTaken != "resolve" {
			t.Fatalf("unexpected result %+v", updated)
		}
	})

	t.Run("status action", func(t *testing.T) {
		updated, err := f.report.Moderate(ctx, mod, plain.ID, service.ModerationInput{Action: "duplicate"})
		if err != nil {
			t.Fatalf("Moderate: %v", err)
		}
		if updated.Status != domain.ReportStatusDuplicate {
			t.Fatalf("expected duplicate, got %s", updated.Status)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		for _, action := range []string{"deleteEverything", "deleteContent"} {
			if _, err := f.report.Moderate(ctx, mod, plain.ID, service.ModerationInput{Action: action}); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("%s: expected ErrInvalidInput, got %v", action, err)
			}
		}
		assertStatus(t, f, plain.ID, domain.ReportStatusDuplicate)
	})

	t.Run("suspend requires positive days", func(t *testing.T) {
		for _, days := range []*int{nil, intPtr(0), intPtr(-3)} {
			if _, err := f.report.Moderate(ctx, mod, abuse.ID, service.ModerationInput{Action: "suspendUser", SuspendDays: days}); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		}
		assertStatus(t, f, abuse.ID, domain.ReportStatusPending)
	})

	t.Run("suspend without reported user", func(t *testing.T) {
		if _, err := f.report.Moderate(ctx, mod, plain.ID, service.ModerationInput{Action: "suspendUser", SuspendDays: intPtr(3)}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("suspend reported user", func(t *testing.T) {
		before := time.Now()
		updated, err := f.report.Moderate(ctx, mod, abuse.ID, service.ModerationInput{Action: "suspendUser", SuspendDays: intPtr(3)})
		if err != nil {
			t.Fatalf("Moderate: %v", err)
		}
		if updated.Status != domain.ReportStatusResolved {
			t.Fatalf("expected resolved, got %s", updated.Status)
		}

		target, _ := f.users.GetByID(ctx, mallory.UserID)
		if target.SuspendedUntil == nil {
			t.Fatalf("expected reported user to be suspended")
		}
		if got := target.SuspendedUntil.Sub(before); got < 72*time.Hour || got > 72*time.Hour+time.Minute {
			t.Fatalf("expected three day suspension, got %s", got)
		}
		reporter, _ := f.users.GetByID(ctx, alice.UserID)
		if reporter.SuspendedUntil != nil {
			t.Fatalf("expected reporter to be untouched")
		}
	})

	t.Run("plain user", func(t *testing.T) {
		if _, err := f.report.Moderate(ctx, alice, plain.ID, service.ModerationInput{Action: "resolve"}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestListAndQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)
	first := f.createReport(t, alice, "first")
	f.createReport(t, alice, "second")
	third := f.createReport(t, alice, "third")
	if _, err := f.report.Transition(ctx, mod, first.ID, domain.ReportStatusResolved); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	all, err := f.report.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatalf("expected newest first")
	}

	bad := domain.ReportStatus("bogus")
	if _, err := f.report.List(ctx, &bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status filter, got %v", err)
	}

	queue, err := f.report.ListQueue(ctx, mod, nil)
	if err != nil {
		t.Fatalf("ListQueue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected two pending reports, got %d", len(queue))
	}
	resolved := domain.ReportStatusResolved
	queue, _ = f.report.ListQueue(ctx, mod, &resolved)
	if len(queue) != 1 || queue[0].ID != first.ID {
		t.Fatalf("expected the resolved report only")
	}
	if _, err := f.report.ListQueue(ctx, alice, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func assertStatus(t *testing.T, f *fixture, id string, want domain.ReportStatus) {
	t.Helper()
	report, err := f.report.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if report.Status != want {
		t.Fatalf("expected status %s, got %s", want, report.Status)
	}
}

// statusFailingReports rejects every status update.
type statusFailingReports struct {
	*memory.ReportRepository
}

func (statusFailingReports) UpdateStatus(context.Context, string, domain.StatusChange) (*domain.Report, error) {
	return nil, errors.New("store unavailable")
}

func TestSuspendUserLeavesAccountUntouchedWhenResolveFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerAs(t, "alice", domain.RoleUser)
	mallory := f.registerAs(t, "mallory", domain.RoleUser)
	mod := f.registerAs(t, "mod", domain.RoleModerator)

	abuse, err := f.report.Create(ctx, alice, service.CreateReportInput{
		Title:          "Abuse",
		Description:    "spam",
		Type:           "abuse",
		ReportedUserID: &mallory.UserID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	failing := service.NewReportService(service.ReportDependencies{
		ReportRepo:  statusFailingReports{f.reports},
		HistoryRepo: f.history,
		UserRepo:    f.users,
	})
	if _, err := failing.Moderate(ctx, mod, abuse.ID, service.ModerationInput{Action: "suspendUser", SuspendDays: intPtr(3)}); err == nil {
		t.Fatalf("expected the failed status update to surface")
	}

	target, _ := f.users.GetByID(ctx, mallory.UserID)
	if target.SuspendedUntil != nil {
		t.Fatalf("expected no suspension when the report could not be resolved")
	}
	assertStatus(t, f, abuse.ID, domain.ReportStatusPending)
}
