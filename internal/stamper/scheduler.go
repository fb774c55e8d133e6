package stamper

import "time"

// Timer is a cancellable handle to a scheduled action.
// Stop reports whether the call prevented the action from running.
type Timer interface {
	Stop() bool
}

// Scheduler schedules a function to run after a delay and returns a
// cancellable handle. Injecting it keeps the Debouncer off the wall clock,
// so tests drive time deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// WallClock returns the production Scheduler backed by time.AfterFunc.
func WallClock() Scheduler { return wallScheduler{} }
