package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/service"
)

// ModerationHandler serves the moderator endpoints.
type ModerationHandler struct {
	service *service.ReportService
}

// NewModerationHandler constructs handler.
func NewModerationHandler(reportService *service.ReportService) *ModerationHandler {
	return &ModerationHandler{service: reportService}
}

// Queue GET /mod/reports.
func (h *ModerationHandler) Queue(c *fiber.Ctx) error {
	reports, err := h.service.ListQueue(c.UserContext(), auth.IdentityFromContext(c), statusQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportList(reports))
}

// Moderate PATCH /mod/reports/:id.
func (h *ModerationHandler) Moderate(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ModerateReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	report, err := h.service.Moderate(c.UserContext(), auth.IdentityFromContext(c), id, service.ModerationInput{
		Action:      req.Action,
		SuspendDays: req.SuspendDays,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportMutationResponse{Message: "report moderated", Report: dto.NewReportResponse(report)})
}

// History GET /mod/reports/:id/history.
func (h *ModerationHandler) History(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.UserContext(), auth.IdentityFromContext(c), id)
	if err != nil {
		return err
	}
	out := make([]dto.ReportHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ReportHistoryResponse{
			ID:        e.ID,
			ReportID:  e.ReportID,
			ChangedBy: e.ChangedBy,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(out)
}
