package domain

import "time"

// ReportHistory is an immutable audit trail entry for a status transition.
type ReportHistory struct {
	ID        string
	ReportID  string
	ChangedBy string
	OldStatus ReportStatus
	NewStatus ReportStatus
	Action    string
	CreatedAt time.Time
}
