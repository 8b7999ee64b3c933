package worker

import (
	"context"

	"github.com/rs/zerolog"

	"pollbot/internal/domain/poll"
	"pollbot/internal/metrics"
)

// EventsWorker drains session lifecycle events, logs them and feeds
// the Prometheus counters. The session manager emits non-blockingly,
// so a stalled worker drops events instead of stalling votes.
type EventsWorker struct {
	ch  <-chan poll.Event
	log zerolog.Logger
}

func NewEventsWorker(ch <-chan poll.Event, log zerolog.Logger) *EventsWorker {
	return &EventsWorker{ch: ch, log: log.With().Str("component", "events").Logger()}
}

func (w *EventsWorker) Run(ctx context.Context) {
	w.log.Info().Msg("events worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("events worker stopped")
			return
		case ev := <-w.ch:
			w.handle(ev)
		}
	}
}

func (w *EventsWorker) handle(ev poll.Event) {
	switch ev.Type {
	case poll.EventStarted:
		metrics.IncPollStarted()
		w.log.Info().Str("session", ev.SessionID).Msg("poll started")
	case poll.EventVoteAccepted:
		metrics.IncVote("accepted")
		w.log.Info().
			Str("session", ev.SessionID).
			Str("voter", ev.VoterID).
			Int("option", ev.Option).
			Msg("vote accepted")
	case poll.EventVoteRejected:
		metrics.IncVote("rejected")
		w.log.Debug().
			Str("session", ev.SessionID).
			Str("voter", ev.VoterID).
			Int("option", ev.Option).
			Msg("vote rejected")
	case poll.EventClosed:
		metrics.IncPollClosed()
		w.log.Info().Str("session", ev.SessionID).Msg("poll closed")
	case poll.EventEvicted:
		w.log.Debug().Str("session", ev.SessionID).Msg("session evicted")
	}
}
