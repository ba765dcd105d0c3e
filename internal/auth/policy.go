package auth

import (
	"fmt"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// CanMutateReport reports whether the caller may edit or delete the report:
// privileged roles always may, other callers only for reports they own.
func CanMutateReport(id *domain.Identity, report *domain.Report) bool {
	if id == nil || report == nil {
		return false
	}
	return id.Role.Privileged() || id.UserID == report.ReporterID
}

// CanModerate reports whether the caller holds a privileged role.
func CanModerate(id *domain.Identity) bool {
	return id != nil && id.Role.Privileged()
}

// CanAdminister reports whether the caller is an admin.
func CanAdminister(id *domain.Identity) bool {
	return id != nil && id.Role == domain.RoleAdmin
}

// AuthorizeReportMutation returns ErrUnauthenticated for anonymous callers and
// ErrForbidden for callers that neither own the report nor hold a privileged role.
func AuthorizeReportMutation(id *domain.Identity, report *domain.Report) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if !CanMutateReport(id, report) {
		return fmt.Errorf("%w: only the reporter or a moderator may change this report", domain.ErrForbidden)
	}
	return nil
}

// AuthorizeModeration gates moderator-only operations.
func AuthorizeModeration(id *domain.Identity) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if !CanModerate(id) {
		return fmt.Errorf("%w: moderator role required", domain.ErrForbidden)
	}
	return nil
}

// AuthorizeAdministration gates admin-only operations.
func AuthorizeAdministration(id *domain.Identity) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if !CanAdminister(id) {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}
