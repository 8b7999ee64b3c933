package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pollbot/internal/metrics"
)

// Evictor is the slice of the session manager the sweeper needs.
type Evictor interface {
	EvictClosed(ctx context.Context) int
	ActiveSessions(ctx context.Context) int
}

// Sweeper periodically evicts retired sessions. The expiry timers do
// the closing; the sweep only reclaims registry memory afterwards, so
// missing a tick costs nothing but retention.
type Sweeper struct {
	evictor  Evictor
	interval time.Duration
	log      zerolog.Logger
}

func NewSweeper(evictor Evictor, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		evictor:  evictor,
		interval: interval,
		log:      log.With().Str("component", "sweeper").Logger(),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("sweeper started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
			if n := s.evictor.EvictClosed(ctx); n > 0 {
				s.log.Info().Int("evicted", n).Msg("swept retired sessions")
			}
			metrics.SetSessionsActive(s.evictor.ActiveSessions(ctx))
		}
	}
}
