// Package scheduler provides one-shot delayed callbacks for poll
// expiry.
package scheduler

import "time"

// Timers schedules callbacks on the process timer heap. The zero value
// is ready to use.
type Timers struct{}

func New() *Timers {
	return &Timers{}
}

// Schedule runs fn after d on its own goroutine. The returned cancel
// stops the callback and reports whether it had not fired yet.
func (t *Timers) Schedule(d time.Duration, fn func()) func() bool {
	timer := time.AfterFunc(d, fn)
	return timer.Stop
}
