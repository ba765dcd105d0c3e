package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// VisitorRepository counts visits per country.
type VisitorRepository struct {
	mu     sync.Mutex
	counts map[string]int64
}

var _ repository.VisitorRepository = (*VisitorRepository)(nil)

func NewVisitorRepository() *VisitorRepository {
	return &VisitorRepository{counts: make(map[string]int64)}
}

func (r *VisitorRepository) Increment(_ context.Context, country string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[country]++
	return nil
}

func (r *VisitorRepository) List(_ context.Context) ([]domain.VisitorCountry, error) {
	r.mu.Lock()
	result := make([]domain.VisitorCountry, 0, len(r.counts))
	for country, count := range r.counts {
		result = append(result, domain.VisitorCountry{Country: country, Count: count})
	}
	r.mu.Unlock()

	repository.SortVisitorCountries(result)
	return result, nil
}

// SnapshotRepository holds the single most recent Trello snapshot.
type SnapshotRepository struct {
	mu       sync.RWMutex
	snapshot *domain.TrelloSnapshot
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Save(_ context.Context, snapshot domain.TrelloSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := append([]domain.TrelloListStat{}, snapshot.Stats...)
	r.snapshot = &domain.TrelloSnapshot{Stats: stats, UpdatedAt: snapshot.UpdatedAt}
	return nil
}

func (r *SnapshotRepository) Latest(_ context.Context) (*domain.TrelloSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, fmt.Errorf("trello stats: %w", domain.ErrNotFound)
	}
	stats := append([]domain.TrelloListStat{}, r.snapshot.Stats...)
	return &domain.TrelloSnapshot{Stats: stats, UpdatedAt: r.snapshot.UpdatedAt}, nil
}
