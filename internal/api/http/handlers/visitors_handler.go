package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/service"
)

// VisitorsHandler records and reports visitor countries.
type VisitorsHandler struct {
	service *service.VisitorService
}

// NewVisitorsHandler constructs handler.
func NewVisitorsHandler(visitorService *service.VisitorService) *VisitorsHandler {
	return &VisitorsHandler{service: visitorService}
}

// LogVisit POST /log-visit.
func (h *VisitorsHandler) LogVisit(c *fiber.Ctx) error {
	country, err := h.service.LogVisit(c.UserContext(), clientIP(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.VisitResponse{Message: "visit logged: " + country, Country: country})
}

// Countries GET /visitors/countries.
func (h *VisitorsHandler) Countries(c *fiber.Ctx) error {
	counts, err := h.service.Countries(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.VisitorCountryResponse, 0, len(counts))
	for _, vc := range counts {
		out = append(out, dto.VisitorCountryResponse{Country: vc.Country, Count: vc.Count})
	}
	return c.JSON(out)
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	return c.IP()
}
