package transport

import (
	"sync"
	"time"

	"github.com/limoride/limotrack/internal/pkg/retry"
)

// reconnector schedules re-establishment of a dropped session with bounded
// exponential backoff. Invariants: at most one pending retry timer exists at
// any moment, and nothing is ever scheduled after an intentional stop, even
// when a late connect-error callback races in.
type reconnector struct {
	backoff retry.BackoffConfig

	connect     func()
	onSchedule  func(attempt int, delay time.Duration)
	onExhausted func()

	mu       sync.Mutex
	timer    *time.Timer
	attempts int
	stopped  bool
}

func newReconnector(backoff retry.BackoffConfig, connect func()) *reconnector {
	return &reconnector{
		backoff: backoff,
		connect: connect,
	}
}

// onConnected resets the retry budget after a successful connect.
func (r *reconnector) onConnected() {
	r.mu.Lock()
	r.attempts = 0
	r.cancelTimerLocked()
	r.mu.Unlock()
}

// onConnectError and onDisconnect both consume one attempt and schedule the
// next retry.
func (r *reconnector) onConnectError() {
	r.schedule()
}

func (r *reconnector) onDisconnect() {
	r.schedule()
}

func (r *reconnector) schedule() {
	r.mu.Lock()

	if r.stopped {
		r.mu.Unlock()
		return
	}
	if r.backoff.Exhausted(r.attempts) {
		exhausted := r.onExhausted
		r.mu.Unlock()
		if exhausted != nil {
			exhausted()
		}
		return
	}

	// Replace any pending timer so only one retry is ever outstanding.
	r.cancelTimerLocked()

	delay := r.backoff.DelayFor(r.attempts)
	r.attempts++
	attempt := r.attempts
	r.timer = time.AfterFunc(delay, r.fire)
	scheduled := r.onSchedule
	r.mu.Unlock()

	if scheduled != nil {
		scheduled(attempt, delay)
	}
}

func (r *reconnector) fire() {
	r.mu.Lock()
	r.timer = nil
	stopped := r.stopped
	r.mu.Unlock()

	if !stopped {
		r.connect()
	}
}

// stop cancels any pending retry and suppresses all future scheduling until
// reset is called. Used for intentional disconnects and shutdown.
func (r *reconnector) stop() {
	r.mu.Lock()
	r.stopped = true
	r.cancelTimerLocked()
	r.mu.Unlock()
}

// reset clears the stopped flag, the attempt counter, and any pending timer.
// Used for explicit user-triggered retry.
func (r *reconnector) reset() {
	r.mu.Lock()
	r.stopped = false
	r.attempts = 0
	r.cancelTimerLocked()
	r.mu.Unlock()
}

func (r *reconnector) pendingRetry() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

func (r *reconnector) attemptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func (r *reconnector) cancelTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
