package app

import (
	"sync"
	"time"
)

// Countdown is the per-question timer. Only one countdown runs at a time: Start
// cancels the previous one. Callbacks run on the countdown's goroutine.
type Countdown struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start counts down from seconds, calling onTick with the remaining value after
// every interval and onExpire once when it reaches zero.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(stop, seconds, onTick, onExpire)
}

// Stop cancels the running countdown. It is safe to call repeatedly and from callbacks.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Running reports whether a countdown is active.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Countdown) run(stop chan struct{}, remaining int, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		// A stop may race with the tick; it wins.
		select {
		case <-stop:
			return
		default:
		}

		remaining--
		if remaining < 0 {
			remaining = 0
		}
		if onTick != nil {
			onTick(remaining)
		}
		if remaining == 0 {
			c.finish(stop)
			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

// finish clears the countdown if it is still the current one.
func (c *Countdown) finish(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == stop {
		c.stop = nil
	}
}
