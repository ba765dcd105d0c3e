package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/service"
	apperrors "github.com/spec-kit/report-tracker/pkg/util"
)

// UsersHandler exposes the authentication endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreatedResponse{ID: user.ID, Message: "user registered"})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		UserID:    result.User.ID,
		Username:  result.User.Username,
		Email:     result.User.Email,
		Role:      result.User.Role,
	})
}

// Me handles GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		return apperrors.NewUnauthorized(auth.ErrInvalidToken.Error())
	}
	return c.JSON(dto.SessionResponse{
		UserID:    identity.UserID,
		Email:     identity.Email,
		Role:      identity.Role,
		ExpiresAt: identity.ExpiresAt,
	})
}
