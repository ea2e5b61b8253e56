package combat

import (
	"sync"
	"time"
)

// IdleTimer fires a callback once a battle has gone a full timeout without
// player activity. Touch restarts the countdown. It is safe for concurrent use.
type IdleTimer struct {
	mu      sync.Mutex
	timeout time.Duration
	onIdle  func()
	timer   *time.Timer
	stopped bool
	// gen identifies the live countdown; fires from replaced timers are ignored.
	gen uint64
}

// NewIdleTimer starts a timer that calls onIdle after timeout unless touched or stopped.
// onIdle runs on its own goroutine.
//
// Precondition: timeout > 0; onIdle must not be nil.
func NewIdleTimer(timeout time.Duration, onIdle func()) *IdleTimer {
	it := &IdleTimer{timeout: timeout, onIdle: onIdle}
	it.start()
	return it
}

// start arms a fresh countdown. Callers hold mu, except NewIdleTimer.
func (it *IdleTimer) start() {
	it.gen++
	gen := it.gen
	it.timer = time.AfterFunc(it.timeout, func() { it.fire(gen) })
}

func (it *IdleTimer) fire(gen uint64) {
	it.mu.Lock()
	if it.stopped || gen != it.gen {
		it.mu.Unlock()
		return
	}
	it.stopped = true
	it.mu.Unlock()
	it.onIdle()
}

// Touch restarts the countdown. It has no effect after Stop or after the timer fired.
func (it *IdleTimer) Touch() {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.stopped {
		return
	}
	it.timer.Stop()
	it.start()
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onIdle will not be called after Stop returns, unless it was
// already running.
func (it *IdleTimer) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stopped = true
	it.timer.Stop()
}
