package poll

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxOptions is the hard cap on options per poll: Discord renders at
// most five action rows of five buttons on a single message.
const MaxOptions = 25

var (
	ErrInvalidInput    = errors.New("options must contain at least one non-empty entry")
	ErrSessionNotFound = errors.New("poll session not found")
	ErrSessionClosed   = errors.New("poll session is closed")
	ErrDuplicateVoter  = errors.New("voter already voted in this poll")
	ErrInvalidOption   = errors.New("option is not part of this poll")
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Session is the in-memory record of one poll. ID is the interaction
// ID Discord assigned to the initiating slash command; vote component
// interactions carry it back on the poll message.
type Session struct {
	ID        string
	ChannelID string
	MessageID string
	Options   []string
	Tally     []int
	Voters    map[string]struct{}
	CreatedAt time.Time
	ExpiresAt time.Time
	Status    Status

	// cancelExpiry stops the pending one-shot expiry timer.
	cancelExpiry func() bool
}

// Snapshot is an immutable view of a session, safe to render outside
// the registry lock.
type Snapshot struct {
	ID         string
	ChannelID  string
	MessageID  string
	Options    []string
	Tally      []int
	TotalVotes int
	ExpiresAt  time.Time
	Status     Status
}

func (s *Session) snapshot() *Snapshot {
	opts := make([]string, len(s.Options))
	copy(opts, s.Options)
	tally := make([]int, len(s.Tally))
	copy(tally, s.Tally)
	return &Snapshot{
		ID:         s.ID,
		ChannelID:  s.ChannelID,
		MessageID:  s.MessageID,
		Options:    opts,
		Tally:      tally,
		TotalVotes: len(s.Voters),
		ExpiresAt:  s.ExpiresAt,
		Status:     s.Status,
	}
}

// ParseOptions splits a raw comma-separated option string into the
// ordered option list. Tokens are trimmed of whitespace and empty
// tokens are dropped. Duplicate text is kept: each token is a distinct
// slot, addressed by position.
func ParseOptions(raw string) ([]string, error) {
	var opts []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		opts = append(opts, tok)
	}
	if len(opts) == 0 || len(opts) > MaxOptions {
		return nil, ErrInvalidInput
	}
	return opts, nil
}

// Repository is the session registry: lookup by platform-assigned ID
// for the life of the process. Mutate runs fn under the registry lock
// so operations on one session never interleave; implementations must
// return fn's error unchanged so callers can match sentinel errors.
type Repository interface {
	Insert(ctx context.Context, s *Session) error
	Mutate(ctx context.Context, id string, fn func(*Session) error) error
	Delete(ctx context.Context, id string) error
	ClosedBefore(ctx context.Context, cutoff time.Time) []string
	Len(ctx context.Context) int
}

// Scheduler provides delayed one-shot callbacks for session expiry.
type Scheduler interface {
	// Schedule runs fn after d. The returned func cancels the pending
	// callback and reports whether it was stopped before firing.
	Schedule(d time.Duration, fn func()) (cancel func() bool)
}

// Publisher renders the final closed state of a poll to the platform.
// In-flight renders (initial reply, vote updates) are interaction
// responses owned by the transport; only the timer-driven close needs
// an outbound edit.
type Publisher interface {
	PublishClosed(ctx context.Context, snap *Snapshot) error
}

// EventType classifies session lifecycle events for the events worker.
type EventType string

const (
	EventStarted      EventType = "started"
	EventVoteAccepted EventType = "vote_accepted"
	EventVoteRejected EventType = "vote_rejected"
	EventClosed       EventType = "closed"
	EventEvicted      EventType = "evicted"
)

type Event struct {
	Type      EventType
	SessionID string
	Option    int
	VoterID   string
}
