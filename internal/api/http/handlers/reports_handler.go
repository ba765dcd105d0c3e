package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/service"
	apperrors "github.com/spec-kit/report-tracker/pkg/util"
)

// ReportsHandler manages report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Create POST /reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.ReportedUserID != nil {
		id, err := uuid.Parse(*req.ReportedUserID)
		if err != nil {
			return apperrors.NewValidationError("invalid reportedUserId", nil)
		}
		normalized := id.String()
		req.ReportedUserID = &normalized
	}

	report, err := h.service.Create(c.UserContext(), auth.IdentityFromContext(c), service.CreateReportInput{
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		ReportedUserID: req.ReportedUserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreatedResponse{ID: report.ID, Message: "report created"})
}

// List GET /reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.List(c.UserContext(), statusQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportList(reports))
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// Update PUT /reports/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	report, err := h.service.Edit(c.UserContext(), auth.IdentityFromContext(c), id, domain.ReportPatch{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportMutationResponse{Message: "report updated", Report: dto.NewReportResponse(report)})
}

// Delete DELETE /reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.UserContext(), auth.IdentityFromContext(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "report deleted"})
}

// Purge DELETE /reports.
func (h *ReportsHandler) Purge(c *fiber.Ctx) error {
	deleted, err := h.service.PurgeAll(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.PurgeResponse{Message: "all reports deleted", DeletedCount: deleted})
}
