package session

import (
	"sync"
	"time"
)

// Countdown is a cancellable per-question timer. It ticks once a second and
// fires onExpire when the remaining time reaches zero. Stop invalidates the
// current generation, so a callback that was already scheduled when Stop ran
// is a no-op.
type Countdown struct {
	mu         sync.Mutex
	generation int
	timer      *time.Timer
	remaining  int

	onTick   func(secondsLeft int)
	onExpire func()
}

// NewCountdown creates an idle countdown. Either callback may be nil.
func NewCountdown(onTick func(secondsLeft int), onExpire func()) *Countdown {
	return &Countdown{onTick: onTick, onExpire: onExpire}
}

// Start begins a fresh countdown of the given number of seconds, cancelling
// any countdown already running.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.generation++
	c.remaining = seconds
	c.scheduleLocked(c.generation)
}

// Stop cancels the running countdown. Safe to call repeatedly.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.generation++
}

func (c *Countdown) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Countdown) scheduleLocked(gen int) {
	c.timer = time.AfterFunc(time.Second, func() { c.tick(gen) })
}

func (c *Countdown) tick(gen int) {
	c.mu.Lock()
	if gen != c.generation {
		// Stale fire after Stop or restart.
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining <= 0
	if !expired {
		c.scheduleLocked(gen)
	} else {
		c.timer = nil
	}
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if expired && onExpire != nil {
		onExpire()
	}
}

// Remaining reports the seconds left on the running countdown.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
