package domain

import "time"

// ReportStatus enumerates lifecycle states for reports.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusWontFix       ReportStatus = "wontfix"
	ReportStatusDuplicate     ReportStatus = "duplicate"
	ReportStatusInvalid       ReportStatus = "invalid"
	ReportStatusNeedsReview   ReportStatus = "needsReview"
)

// ReportStatuses lists every recognized status. Any status may follow any other.
var ReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusInvestigating,
	ReportStatusResolved,
	ReportStatusWontFix,
	ReportStatusDuplicate,
	ReportStatusInvalid,
	ReportStatusNeedsReview,
}

// Valid reports whether s is a recognized status.
func (s ReportStatus) Valid() bool {
	for _, candidate := range ReportStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Common report types. The set is open; any non-empty canonical type is accepted.
const (
	ReportTypeBug     = "bug"
	ReportTypeFeature = "feature"
)

// Report is a bug or feature report submitted by a user.
type Report struct {
	ID             string
	ReporterID     string
	ReportedUserID *string
	Title          string
	Description    string
	Type           string
	Status         ReportStatus
	ActionTaken    *string
	ResolvedBy     *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReportPatch carries the content fields of an edit; nil fields are left unchanged.
type ReportPatch struct {
	Title       *string
	Description *string
	Type        *string
}

// Empty reports whether the patch changes nothing.
func (p ReportPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Type == nil
}

// StatusChange is the resolution metadata written by a transition.
type StatusChange struct {
	Status     ReportStatus
	Action     string
	ResolvedBy string
	ResolvedAt time.Time
}
