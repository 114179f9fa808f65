// Package sweeper periodically deletes expired refresh tokens.
package sweeper

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
)

// Store is what the sweeper needs from the refresh-token layer.
type Store interface {
	Sweep(ctx context.Context) (int64, error)
}

type Sweeper struct {
	store    Store
	interval time.Duration
	logger   logging.Logger
}

// New returns a sweeper running every interval. A non-positive interval
// disables it.
func New(store Store, interval time.Duration, l logging.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, logger: l.With("module", "sweeper")}
}

// Run sweeps once per interval until ctx is done. Failures are logged and
// the next tick tries again.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info(ctx, "Sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping sweeper...")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.store.Sweep(ctx)
	if err != nil {
		s.logger.Error(ctx, "sweep failed", "error", err)
		return
	}
	metrics.RefreshTokensSwept.Add(float64(n))
	if n > 0 {
		s.logger.Debug(ctx, "expired refresh tokens deleted", "count", n)
	}
}
