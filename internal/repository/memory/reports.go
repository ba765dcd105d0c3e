package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// ReportRepository stores reports in memory. Title uniqueness is enforced like the unique index in Postgres.
type ReportRepository struct {
	mu      sync.RWMutex
	seq     int
	reports map[string]*reportRecord
	history *ReportHistoryRepository
}

type reportRecord struct {
	report domain.Report
	seq    int
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository returns an empty store. When history is non-nil, deleting a
// report also drops its history entries, mirroring the cascading foreign key.
func NewReportRepository(history *ReportHistoryRepository) *ReportRepository {
	return &ReportRepository{reports: make(map[string]*reportRecord), history: history}
}

func (r *ReportRepository) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.titleTaken(report.Title, "") {
		return fmt.Errorf("%w: report title already exists", domain.ErrConflict)
	}
	report.ID = uuid.NewString()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	report.UpdatedAt = report.CreatedAt
	r.seq++
	r.reports[report.ID] = &reportRecord{report: cloneReport(*report), seq: r.seq}
	return nil
}

func (r *ReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("report: %w", domain.ErrNotFound)
	}
	report := cloneReport(rec.report)
	return &report, nil
}

func (r *ReportRepository) List(_ context.Context, status *domain.ReportStatus) ([]domain.Report, error) {
	r.mu.RLock()
	records := make([]*reportRecord, 0, len(r.reports))
	for _, rec := range r.reports {
		if status != nil && rec.report.Status != *status {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].report.CreatedAt.Equal(records[j].report.CreatedAt) {
			return records[i].report.CreatedAt.After(records[j].report.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
	reports := make([]domain.Report, 0, len(records))
	for _, rec := range records {
		reports = append(reports, cloneReport(rec.report))
	}
	r.mu.RUnlock()
	return reports, nil
}

func (r *ReportRepository) UpdateContent(_ context.Context, id string, patch domain.ReportPatch, updatedAt time.Time) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("report: %w", domain.ErrNotFound)
	}
	if patch.Title != nil && r.titleTaken(*patch.Title, id) {
		return nil, fmt.Errorf("%w: report title already exists", domain.ErrConflict)
	}
	if patch.Title != nil {
		rec.report.Title = *patch.Title
	}
	if patch.Description != nil {
		rec.report.Description = *patch.Description
	}
	if patch.Type != nil {
		rec.report.Type = *patch.Type
	}
	rec.report.UpdatedAt = updatedAt
	report := cloneReport(rec.report)
	return &report, nil
}

func (r *ReportRepository) UpdateStatus(_ context.Context, id string, change domain.StatusChange) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("report: %w", domain.ErrNotFound)
	}
	action := change.Action
	resolvedBy := change.ResolvedBy
	resolvedAt := change.ResolvedAt
	rec.report.Status = change.Status
	rec.report.ActionTaken = &action
	rec.report.ResolvedBy = &resolvedBy
	rec.report.ResolvedAt = &resolvedAt
	report := cloneReport(rec.report)
	return &report, nil
}

func (r *ReportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[id]; !ok {
		return fmt.Errorf("report: %w", domain.ErrNotFound)
	}
	delete(r.reports, id)
	if r.history != nil {
		r.history.dropReport(id)
	}
	return nil
}

func (r *ReportRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.reports))
	if r.history != nil {
		for id := range r.reports {
			r.history.dropReport(id)
		}
	}
	r.reports = make(map[string]*reportRecord)
	return n, nil
}

// titleTaken must be called with the lock held.
func (r *ReportRepository) titleTaken(title, exceptID string) bool {
	for id, rec := range r.reports {
		if id != exceptID && rec.report.Title == title {
			return true
		}
	}
	return false
}

func cloneReport(in domain.Report) domain.Report {
	out := in
	if in.ReportedUserID != nil {
		v := *in.ReportedUserID
		out.ReportedUserID = &v
	}
	if in.ActionTaken != nil {
		v := *in.ActionTaken
		out.ActionTaken = &v
	}
	if in.ResolvedBy != nil {
		v := *in.ResolvedBy
		out.ResolvedBy = &v
	}
	if in.ResolvedAt != nil {
		v := *in.ResolvedAt
		out.ResolvedAt = &v
	}
	return out
}
