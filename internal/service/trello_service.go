package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// BoardFetcher retrieves list statistics from a Trello board.
type BoardFetcher interface {
	FetchListStats(ctx context.Context) ([]domain.TrelloListStat, error)
}

// TrelloService scrapes the board and keeps the latest snapshot.
type TrelloService struct {
	fetcher   BoardFetcher
	snapshots repository.SnapshotRepository
	logger    *zap.Logger
	timeout   time.Duration
	group     singleflight.Group
	now       func() time.Time
}

// NewTrelloService constructs the service. timeout bounds one scrape and
// defaults to 30s when non-positive.
func NewTrelloService(fetcher BoardFetcher, snapshots repository.SnapshotRepository, timeout time.Duration, logger *zap.Logger) *TrelloService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TrelloService{fetcher: fetcher, snapshots: snapshots, timeout: timeout, logger: logger, now: time.Now}
}

// Refresh scrapes the board and upserts the snapshot. Concurrent callers share
// one fetch, which runs detached from any single caller's cancellation; a
// cancelled caller stops waiting without aborting the others.
func (s *TrelloService) Refresh(ctx context.Context) ([]domain.TrelloListStat, error) {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		stats, err := s.fetcher.FetchListStats(runCtx)
		if err != nil {
			return nil, err
		}
		if err := s.snapshots.Save(runCtx, domain.TrelloSnapshot{Stats: stats, UpdatedAt: s.now()}); err != nil {
			return nil, err
		}
		return stats, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		stats := res.Val.([]domain.TrelloListStat)
		s.logger.Info("trello stats refreshed", zap.Int("lists", len(stats)), zap.Bool("shared", res.Shared))
		return stats, nil
	}
}

// Latest returns the stored snapshot, or a wrapped domain.ErrNotFound before the first refresh.
func (s *TrelloService) Latest(ctx context.Context) (*domain.TrelloSnapshot, error) {
	return s.snapshots.Latest(ctx)
}
