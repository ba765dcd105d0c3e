package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// ReportHistoryRepository keeps transition entries per report in insertion order.
type ReportHistoryRepository struct {
	mu       sync.RWMutex
	byReport map[string][]domain.ReportHistory
}

var _ repository.ReportHistoryRepository = (*ReportHistoryRepository)(nil)

func NewReportHistoryRepository() *ReportHistoryRepository {
	return &ReportHistoryRepository{byReport: make(map[string][]domain.ReportHistory)}
}

func (r *ReportHistoryRepository) Create(_ context.Context, history *domain.ReportHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history.ID = uuid.NewString()
	history.CreatedAt = time.Now()
	r.byReport[history.ReportID] = append(r.byReport[history.ReportID], *history)
	return nil
}

func (r *ReportHistoryRepository) ListByReport(_ context.Context, reportID string) ([]domain.ReportHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.ReportHistory{}, r.byReport[reportID]...), nil
}

func (r *ReportHistoryRepository) dropReport(reportID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byReport, reportID)
}
