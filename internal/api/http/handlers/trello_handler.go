package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-tracker/internal/api/dto"
	"github.com/spec-kit/report-tracker/internal/service"
)

// TrelloHandler serves the scraped board statistics.
type TrelloHandler struct {
	service *service.TrelloService
}

// NewTrelloHandler constructs handler.
func NewTrelloHandler(trelloService *service.TrelloService) *TrelloHandler {
	return &TrelloHandler{service: trelloService}
}

// Stats GET /trello-stats.
func (h *TrelloHandler) Stats(c *fiber.Ctx) error {
	snapshot, err := h.service.Latest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.TrelloStatsResponse{Stats: snapshot.Stats, UpdatedAt: snapshot.UpdatedAt})
}

// Update POST /trello-stats/update.
func (h *TrelloHandler) Update(c *fiber.Ctx) error {
	stats, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.TrelloUpdateResponse{Success: true, Stats: stats})
}
