package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/domain"
	apperrors "github.com/spec-kit/report-tracker/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens and stores the caller identity.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Every failure yields the same message.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized(ErrInvalidToken.Error())
	}
	identity, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized(ErrInvalidToken.Error())
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// RequireModerator rejects callers without a privileged role.
func RequireModerator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := AuthorizeModeration(IdentityFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin rejects non-admin callers.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := AuthorizeAdministration(IdentityFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated caller, or nil.
func IdentityFromContext(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
