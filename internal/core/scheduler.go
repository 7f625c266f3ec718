package core

// scheduler.go runs background maintenance for the session store.
//
// The sweeper removes sessions whose idle time exceeds the TTL so their
// tables can be collected. Expired sessions are also rejected lazily on
// access; the sweep only bounds memory held by abandoned sessions.
//
// The loop is long-running and stops when its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 5 * time.Minute

// StartSessionSweeper periodically removes expired sessions.
// It blocks until ctx is cancelled, so callers run it in a goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("session sweeper started",
		"interval", interval.String(),
		"ttl", s.sessions.ttl.String(),
		"max_sessions", s.sessions.max,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// runSweep performs one sweep cycle.
func (s *Service) runSweep() int {
	start := time.Now()
	removed := s.sessions.Sweep()
	if removed > 0 {
		slog.Info("expired sessions removed",
			"sessions_removed", removed,
			"sessions_live", s.sessions.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		slog.Debug("session sweep found nothing", "sessions_live", s.sessions.Len())
	}
	return removed
}
