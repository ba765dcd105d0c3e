package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// Moderation actions accepted besides plain status names.
const (
	ActionResolve     = "resolve"
	ActionSuspendUser = "suspendUser"
)

// ReportService is the report lifecycle controller: it owns creation, content
// edits, status transitions and deletion, and applies the authorization rules.
type ReportService struct {
	reports    repository.ReportRepository
	history    repository.ReportHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	HistoryRepo repository.ReportHistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// CreateReportInput describes report creation payload.
type CreateReportInput struct {
	Title          string
	Description    string
	Type           string
	ReportedUserID *string
}

// ModerationInput is a moderator's request against one report.
type ModerationInput struct {
	Action      string
	SuspendDays *int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create stores a new pending report owned by the caller.
func (s *ReportService) Create(ctx context.Context, actor *domain.Identity, input CreateReportInput) (*domain.Report, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || strings.TrimSpace(input.Type) == "" {
		return nil, fmt.Errorf("%w: title, description and type are required", domain.ErrInvalidInput)
	}
	reportType, err := canonicalType(input.Type)
	if err != nil {
		return nil, err
	}

	reporter, err := s.users.GetByID(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	now := s.now()
	if reporter.SuspendedAt(now) {
		return nil, fmt.Errorf("%w: account suspended", domain.ErrForbidden)
	}

	if input.ReportedUserID != nil {
		if _, err := s.users.GetByID(ctx, *input.ReportedUserID); errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: reported user does not exist", domain.ErrInvalidInput)
		} else if err != nil {
			return nil, err
		}
	}

	report := &domain.Report{
		ReporterID:     actor.UserID,
		ReportedUserID: input.ReportedUserID,
		Title:          title,
		Description:    description,
		Type:           reportType,
		Status:         domain.ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventReportCreated,
		ActorID:   actor.UserID,
		SubjectID: report.ID,
		Payload:   events.ReportCreatedPayload{Title: report.Title, Type: report.Type},
	})
	return report, nil
}

// Get returns one report. Reading is open to every caller.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	return s.reports.GetByID(ctx, id)
}

// List returns reports newest first, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, status *domain.ReportStatus) ([]domain.Report, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *status)
	}
	return s.reports.List(ctx, status)
}

// ListQueue is the moderator view of reports in one status, pending by default.
func (s *ReportService) ListQueue(ctx context.Context, actor *domain.Identity, status *domain.ReportStatus) ([]domain.Report, error) {
	if err := auth.AuthorizeModeration(actor); err != nil {
		return nil, err
	}
	if status == nil {
		pending := domain.ReportStatusPending
		status = &pending
	}
	return s.List(ctx, status)
}

// Edit applies the supplied content fields. Status and resolution metadata are never touched.
func (s *ReportService) Edit(ctx context.Context, actor *domain.Identity, id string, patch domain.ReportPatch) (*domain.Report, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	clean, fields, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeReportMutation(actor, report); err != nil {
		return nil, err
	}

	updated, err := s.reports.UpdateContent(ctx, id, clean, s.now())
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventReportUpdated,
		ActorID:   actor.UserID,
		SubjectID: id,
		Payload:   events.ReportUpdatedPayload{Fields: fields},
	})
	return updated, nil
}

// Remove deletes a single report.
func (s *ReportService) Remove(ctx context.Context, actor *domain.Identity, id string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeReportMutation(actor, report); err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventReportDeleted,
		ActorID:   actor.UserID,
		SubjectID: id,
	})
	return nil
}

// PurgeAll deletes every report and returns how many were removed.
func (s *ReportService) PurgeAll(ctx context.Context, actor *domain.Identity) (int64, error) {
	if err := auth.AuthorizeAdministration(actor); err != nil {
		return 0, err
	}
	deleted, err := s.reports.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventReportsPurged,
		ActorID: actor.UserID,
		Payload: events.ReportsPurgedPayload{DeletedCount: deleted},
	})
	return deleted, nil
}

// Transition moves a report to any recognized status and records the resolver.
func (s *ReportService) Transition(ctx context.Context, actor *domain.Identity, id string, status domain.ReportStatus) (*domain.Report, error) {
	if err := auth.AuthorizeModeration(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, actor, report, status, string(status))
}

// Moderate interprets a moderation action: a status name, "resolve", or
// "suspendUser" which also suspends the reported user for SuspendDays days.
func (s *ReportService) Moderate(ctx context.Context, actor *domain.Identity, id string, input ModerationInput) (*domain.Report, error) {
	if err := auth.AuthorizeModeration(actor); err != nil {
		return nil, err
	}

	action := strings.TrimSpace(input.Action)
	switch action {
	case ActionResolve:
		report, err := s.reports.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.applyTransition(ctx, actor, report, domain.ReportStatusResolved, action)
	case ActionSuspendUser:
		if input.SuspendDays == nil || *input.SuspendDays <= 0 {
			return nil, fmt.Errorf("%w: suspendDays must be a positive integer", domain.ErrInvalidInput)
		}
		return s.suspendReportedUser(ctx, actor, id, *input.SuspendDays)
	}

	status := domain.ReportStatus(action)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown moderation action %q", domain.ErrInvalidInput, action)
	}
	return s.Transition(ctx, actor, id, status)
}

// History lists the status transitions of a report, oldest first.
func (s *ReportService) History(ctx context.Context, actor *domain.Identity, id string) ([]domain.ReportHistory, error) {
	if err := auth.AuthorizeModeration(actor); err != nil {
		return nil, err
	}
	if _, err := s.reports.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByReport(ctx, id)
}

// suspendReportedUser resolves the report before writing the suspension, so a
// failed status update never leaves a user suspended against an open report.
// A failed suspension after the resolve can be retried with the same action.
func (s *ReportService) suspendReportedUser(ctx context.Context, actor *domain.Identity, id string, days int) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.ReportedUserID == nil {
		return nil, fmt.Errorf("%w: report has no reported user", domain.ErrInvalidInput)
	}
	targetID := *report.ReportedUserID
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("reported user: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	updated, err := s.applyTransition(ctx, actor, report, domain.ReportStatusResolved, ActionSuspendUser)
	if err != nil {
		return nil, err
	}

	until := s.now().Add(time.Duration(days) * 24 * time.Hour)
	if err := s.users.Suspend(ctx, targetID, until); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("reported user: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventUserSuspended,
		ActorID:   actor.UserID,
		SubjectID: targetID,
		Payload:   events.UserSuspendedPayload{ReportID: report.ID, SuspendedUntil: until},
	})
	return updated, nil
}

func (s *ReportService) applyTransition(ctx context.Context, actor *domain.Identity, report *domain.Report, status domain.ReportStatus, action string) (*domain.Report, error) {
	oldStatus := report.Status
	updated, err := s.reports.UpdateStatus(ctx, report.ID, domain.StatusChange{
		Status:     status,
		Action:     action,
		ResolvedBy: actor.UserID,
		ResolvedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.recordStatusChange(ctx, actor.UserID, report.ID, oldStatus, status, action); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventReportStatusChanged,
		ActorID:   actor.UserID,
		SubjectID: report.ID,
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Action:    action,
		},
	})
	return updated, nil
}

func (s *ReportService) recordStatusChange(ctx context.Context, actorID, reportID string, oldStatus, newStatus domain.ReportStatus, action string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.ReportHistory{
		ReportID:  reportID,
		ChangedBy: actorID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    action,
	})
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// canonicalType lower-cases and slugifies a report type ("Feature Request" -> "feature-request").
func canonicalType(raw string) (string, error) {
	t := slug.Make(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("%w: type %q is not usable", domain.ErrInvalidInput, raw)
	}
	return t, nil
}

func normalizePatch(patch domain.ReportPatch) (domain.ReportPatch, []string, error) {
	if patch.Empty() {
		return patch, nil, fmt.Errorf("%w: at least one of title, description or type is required", domain.ErrInvalidInput)
	}
	var out domain.ReportPatch
	var fields []string
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return out, nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		}
		out.Title = &title
		fields = append(fields, "title")
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return out, nil, fmt.Errorf("%w: description must not be empty", domain.ErrInvalidInput)
		}
		out.Description = &description
		fields = append(fields, "description")
	}
	if patch.Type != nil {
		t, err := canonicalType(*patch.Type)
		if err != nil {
			return out, nil, err
		}
		out.Type = &t
		fields = append(fields, "type")
	}
	return out, fields, nil
}
