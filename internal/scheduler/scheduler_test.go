package scheduler

import (
	"testing"
	"time"
)

func TestScheduleFires(t *testing.T) {
	fired := make(chan struct{})
	New().Schedule(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("scheduled callback did not fire")
	}
}

func TestCancelStopsPendingCallback(t *testing.T) {
	fired := make(chan struct{})
	cancel := New().Schedule(time.Hour, func() { close(fired) })

	if !cancel() {
		t.Fatalf("cancel should report the callback as stopped")
	}
	select {
	case <-fired:
		t.Fatalf("cancelled callback must not fire")
	case <-time.After(20 * time.Millisecond):
	}
}
