// Package worker holds background loops that run beside the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/payalife/lms-backend/internal/metrics"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// Sweeper fails PENDING transactions whose buyer never came back from the
// gateway, so abandoned checkouts do not linger forever.
type Sweeper struct {
	txns     repo.Transactions
	maxAge   time.Duration
	interval time.Duration
	log      *slog.Logger
}

func NewSweeper(txns repo.Transactions, maxAge time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{txns: txns, maxAge: maxAge, interval: time.Hour, log: log}
}

// Run sweeps once at startup and then on every tick until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.txns.FailStalePending(ctx, time.Now().Add(-s.maxAge))
	if err != nil {
		s.log.Error("sweep stale transactions", "error", err)
		return
	}
	if n > 0 {
		metrics.StaleTransactionsSwept.Add(float64(n))
		s.log.Info("stale transactions failed", "count", n)
	}
}
