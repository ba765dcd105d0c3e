package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/service"
)

// AdminHandler serves credential administration.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	out := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserSummary(&users[i]))
	}
	return c.JSON(out)
}

// SetRole PATCH /admin/users/:id/role.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.SetRole(c.UserContext(), auth.IdentityFromContext(c), id, domain.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "role updated to " + req.Role})
}
