package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pollbot/internal/domain/poll"
)

func newSession(id string, status poll.Status, expiresAt time.Time) *poll.Session {
	return &poll.Session{
		ID:        id,
		ChannelID: "chan-1",
		Options:   []string{"a", "b"},
		Tally:     make([]int, 2),
		Voters:    make(map[string]struct{}),
		ExpiresAt: expiresAt,
		Status:    status,
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, newSession("int-1", poll.StatusOpen, time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, newSession("int-1", poll.StatusOpen, time.Now())); err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}
	if store.Len(ctx) != 1 {
		t.Fatalf("expected one stored session, got %d", store.Len(ctx))
	}
}

func TestMutateUnknownSession(t *testing.T) {
	store := NewSessionStore()
	err := store.Mutate(context.Background(), "missing", func(*poll.Session) error {
		t.Fatalf("callback must not run for an unknown session")
		return nil
	})
	if !errors.Is(err, poll.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutatePropagatesCallbackError(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	if err := store.Insert(ctx, newSession("int-1", poll.StatusOpen, time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sentinel := errors.New("callback failed")
	if err := store.Mutate(ctx, "int-1", func(*poll.Session) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error unchanged, got %v", err)
	}
}

func TestDeleteAndClosedBefore(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()

	if err := store.Insert(ctx, newSession("open", poll.StatusOpen, now.Add(-time.Hour))); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, newSession("closed-old", poll.StatusClosed, now.Add(-time.Hour))); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, newSession("closed-fresh", poll.StatusClosed, now.Add(-time.Minute))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ids := store.ClosedBefore(ctx, now.Add(-30*time.Minute))
	if len(ids) != 1 || ids[0] != "closed-old" {
		t.Fatalf("expected only the stale closed session, got %v", ids)
	}

	if err := store.Delete(ctx, "closed-old"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "closed-old"); !errors.Is(err, poll.ErrSessionNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
	if store.Len(ctx) != 2 {
		t.Fatalf("expected two sessions left, got %d", store.Len(ctx))
	}
}

func TestConcurrentMutationsDoNotInterleave(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	if err := store.Insert(ctx, newSession("int-1", poll.StatusOpen, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Mutate(ctx, "int-1", func(sess *poll.Session) error {
				sess.Tally[0]++
				return nil
			})
		}()
	}
	wg.Wait()

	var got int
	_ = store.Mutate(ctx, "int-1", func(sess *poll.Session) error {
		got = sess.Tally[0]
		return nil
	})
	if got != workers {
		t.Fatalf("expected %d serialized increments, got %d", workers, got)
	}
}
