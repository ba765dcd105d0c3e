package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/report-tracker/internal/config"
)

// Refresher runs one scrape-and-store cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// StartTrelloWorker refreshes the board snapshot once a day at the configured
// local wall-clock time until ctx is cancelled. Failures are logged and the next
// run is scheduled as usual.
func StartTrelloWorker(ctx context.Context, cfg config.ScrapeConfig, refresher Refresher, logger *zap.Logger) {
	if !cfg.Enabled {
		logger.Info("trello worker disabled")
		return
	}
	hour, minute, err := cfg.DailyClock()
	if err != nil {
		logger.Error("trello worker disabled: bad schedule", zap.Error(err))
		return
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	go func() {
		for {
			next := nextRun(time.Now(), hour, minute)
			logger.Info("trello refresh scheduled", zap.Time("at", next))
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			runCtx, cancel := context.WithTimeout(ctx, timeout)
			if err := refresher.Refresh(runCtx); err != nil {
				logger.Error("scheduled trello refresh failed", zap.Error(err))
			}
			cancel()
		}
	}()
}

// nextRun returns the first instant strictly after now that falls on hour:minute in now's location.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}
