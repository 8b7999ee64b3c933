package poll

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultWindow is how long a poll accepts votes.
	DefaultWindow = 5 * time.Minute
	// DefaultRetention is how long a closed session stays in the
	// registry before eviction. Late votes in that window get a
	// "closed" rejection instead of "not found".
	DefaultRetention = 10 * time.Minute

	publishTimeout = 10 * time.Second
)

// ServiceOptions tunes a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	Window    time.Duration
	Retention time.Duration
	Events    chan<- Event
	Logger    zerolog.Logger
}

// Service is the poll session manager. It owns the session registry
// and drives each session through open -> closed exactly once, either
// by the expiry timer or never at all for sessions aborted before the
// initial reply succeeded.
type Service struct {
	repo      Repository
	sched     Scheduler
	pub       Publisher
	events    chan<- Event
	window    time.Duration
	retention time.Duration
	log       zerolog.Logger

	now func() time.Time
}

func NewService(repo Repository, sched Scheduler, pub Publisher, opts ServiceOptions) *Service {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	return &Service{
		repo:      repo,
		sched:     sched,
		pub:       pub,
		events:    opts.Events,
		window:    opts.Window,
		retention: opts.Retention,
		log:       opts.Logger,
		now:       time.Now,
	}
}

// StartPoll parses the raw comma-separated options, creates an open
// session keyed by the interaction ID and schedules its expiry. No
// session is created when parsing yields zero options.
func (s *Service) StartPoll(ctx context.Context, id, channelID, raw string) (*Snapshot, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:        id,
		ChannelID: channelID,
		Options:   opts,
		Tally:     make([]int, len(opts)),
		Voters:    make(map[string]struct{}),
		CreatedAt: now,
		ExpiresAt: now.Add(s.window),
		Status:    StatusOpen,
	}
	sess.cancelExpiry = s.sched.Schedule(s.window, func() { s.expire(id) })

	if err := s.repo.Insert(ctx, sess); err != nil {
		sess.cancelExpiry()
		return nil, err
	}

	s.emit(Event{Type: EventStarted, SessionID: id})
	return sess.snapshot(), nil
}

// BindMessage records the ID of the rendered poll message once the
// initial reply has been created, so the final closed render can edit
// it later.
func (s *Service) BindMessage(ctx context.Context, id, messageID string) error {
	return s.repo.Mutate(ctx, id, func(sess *Session) error {
		sess.MessageID = messageID
		return nil
	})
}

// Abort drops a session whose initial reply never reached the
// platform. The poll was never visible, so nothing is rendered.
func (s *Service) Abort(ctx context.Context, id string) {
	_ = s.repo.Mutate(ctx, id, func(sess *Session) error {
		if sess.cancelExpiry != nil {
			sess.cancelExpiry()
		}
		return nil
	})
	_ = s.repo.Delete(ctx, id)
}

// RecordVote applies one vote to an open session. Every precondition
// failure leaves the tally and voter set untouched and is reported to
// the caller only.
func (s *Service) RecordVote(ctx context.Context, id, voterID string, option int) (*Snapshot, error) {
	var snap *Snapshot
	err := s.repo.Mutate(ctx, id, func(sess *Session) error {
		if sess.Status != StatusOpen || !s.now().Before(sess.ExpiresAt) {
			return ErrSessionClosed
		}
		if option < 0 || option >= len(sess.Options) {
			return ErrInvalidOption
		}
		if _, voted := sess.Voters[voterID]; voted {
			return ErrDuplicateVoter
		}
		sess.Tally[option]++
		sess.Voters[voterID] = struct{}{}
		snap = sess.snapshot()
		return nil
	})
	if err != nil {
		s.emit(Event{Type: EventVoteRejected, SessionID: id, Option: option, VoterID: voterID})
		return nil, err
	}
	s.emit(Event{Type: EventVoteAccepted, SessionID: id, Option: option, VoterID: voterID})
	return snap, nil
}

// ClosePoll transitions a session open -> closed and publishes the
// final render. Closing an already-closed session is a no-op.
func (s *Service) ClosePoll(ctx context.Context, id string) error {
	var snap *Snapshot
	err := s.repo.Mutate(ctx, id, func(sess *Session) error {
		if sess.Status == StatusClosed {
			return nil
		}
		sess.Status = StatusClosed
		if sess.cancelExpiry != nil {
			sess.cancelExpiry()
		}
		snap = sess.snapshot()
		return nil
	})
	if err != nil || snap == nil {
		return err
	}

	s.emit(Event{Type: EventClosed, SessionID: id})

	// The network render happens after the registry lock is released.
	if s.pub != nil && snap.MessageID != "" {
		if err := s.pub.PublishClosed(ctx, snap); err != nil {
			s.log.Error().Err(err).Str("session", id).Msg("final poll render failed")
		}
	}
	return nil
}

// EvictClosed drops closed sessions that expired longer than the
// retention window ago and reports how many were removed.
func (s *Service) EvictClosed(ctx context.Context) int {
	cutoff := s.now().Add(-s.retention)
	evicted := 0
	for _, id := range s.repo.ClosedBefore(ctx, cutoff) {
		if err := s.repo.Delete(ctx, id); err != nil {
			continue
		}
		evicted++
		s.emit(Event{Type: EventEvicted, SessionID: id})
	}
	return evicted
}

// ActiveSessions reports the current registry size.
func (s *Service) ActiveSessions(ctx context.Context) int {
	return s.repo.Len(ctx)
}

func (s *Service) expire(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.ClosePoll(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.log.Error().Err(err).Str("session", id).Msg("expiry close failed")
	}
}

func (s *Service) emit(ev Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}
