package editor

import "sync"

// TimerDuration is the countdown started by every run or submit.
const TimerDuration = 3600

// Timer counts whole seconds down to zero. It never goes negative and does
// nothing when it reaches zero besides stopping.
type Timer struct {
	mu        sync.Mutex
	remaining int
	running   bool
}

// Restart sets the timer back to TimerDuration and starts it, even when it
// is already running.
func (t *Timer) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = TimerDuration
	t.running = true
}

// Tick advances the timer by one second and returns the remaining time.
func (t *Timer) Tick() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.remaining
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.running = false
	}
	return t.remaining
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
