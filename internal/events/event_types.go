package events

import (
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportUpdated       EventType = "report_updated"
	EventReportDeleted       EventType = "report_deleted"
	EventReportsPurged       EventType = "reports_purged"
	EventReportStatusChanged EventType = "report_status_changed"
	EventUserRoleChanged     EventType = "user_role_changed"
	EventUserSuspended       EventType = "user_suspended"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actorId"`
	SubjectID string      `json:"subjectId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ReportUpdatedPayload lists the content fields an edit changed.
type ReportUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// ReportsPurgedPayload payload.
type ReportsPurgedPayload struct {
	DeletedCount int64 `json:"deletedCount"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"oldStatus"`
	NewStatus domain.ReportStatus `json:"newStatus"`
	Action    string              `json:"action"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole domain.Role `json:"oldRole"`
	NewRole domain.Role `json:"newRole"`
}

// UserSuspendedPayload payload.
type UserSuspendedPayload struct {
	ReportID       string    `json:"reportId"`
	SuspendedUntil time.Time `json:"suspendedUntil"`
}
