package dto

import (
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// CreateReportRequest payload for POST /reports.
type CreateReportRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	ReportedUserID *string `json:"reportedUserId"`
}

// UpdateReportRequest payload for PUT /reports/:id. Omitted fields stay unchanged.
type UpdateReportRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

// ModerateReportRequest payload for PATCH /mod/reports/:id.
type ModerateReportRequest struct {
	Action      string `json:"action"`
	SuspendDays *int   `json:"suspendDays"`
}

// ReportResponse is the wire shape of a report.
type ReportResponse struct {
	ID             string              `json:"id"`
	ReporterID     string              `json:"reporterId"`
	ReportedUserID *string             `json:"reportedUserId,omitempty"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Type           string              `json:"type"`
	Status         domain.ReportStatus `json:"status"`
	ActionTaken    *string             `json:"actionTaken,omitempty"`
	ResolvedBy     *string             `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time          `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// NewReportResponse converts a domain report.
func NewReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		Status:         r.Status,
		ActionTaken:    r.ActionTaken,
		ResolvedBy:     r.ResolvedBy,
		ResolvedAt:     r.ResolvedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// NewReportList converts a slice, never returning nil.
func NewReportList(reports []domain.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, NewReportResponse(&reports[i]))
	}
	return out
}

// ReportHistoryResponse is one status transition.
type ReportHistoryResponse struct {
	ID        string              `json:"id"`
	ReportID  string              `json:"reportId"`
	ChangedBy string              `json:"changedBy"`
	OldStatus domain.ReportStatus `json:"oldStatus"`
	NewStatus domain.ReportStatus `json:"newStatus"`
	Action    string              `json:"action"`
	CreatedAt time.Time           `json:"createdAt"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is returned when a resource is created.
type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ReportMutationResponse is returned by edits and moderation.
type ReportMutationResponse struct {
	Message string         `json:"message"`
	Report  ReportResponse `json:"report"`
}

// PurgeResponse reports how many documents a purge removed.
type PurgeResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
