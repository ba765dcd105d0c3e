package dto

import (
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// TrelloStatsResponse is the stored board snapshot.
type TrelloStatsResponse struct {
	Stats     []domain.TrelloListStat `json:"stats"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// TrelloUpdateResponse is returned after a manual refresh.
type TrelloUpdateResponse struct {
	Success bool                    `json:"success"`
	Stats   []domain.TrelloListStat `json:"stats"`
}

// VisitResponse confirms a logged visit.
type VisitResponse struct {
	Message string `json:"message"`
	Country string `json:"country"`
}

// VisitorCountryResponse is one country counter.
type VisitorCountryResponse struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}
