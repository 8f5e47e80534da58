/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

// Countdown is the per-phase timer state. It does not schedule itself;
// something external (an Interval, or a test) calls Tick once per second.
//
// Each Reset arms a new run. A run calls onTimeUp at most once, when
// Tick takes the remaining time from one to zero.
type Countdown struct {
	duration  int
	remaining int
	running   bool
	fired     bool
	onTimeUp  func()
}

func NewCountdown(onTimeUp func()) *Countdown {
	return &Countdown{onTimeUp: onTimeUp}
}

// Reset sets the countdown to seconds and leaves it paused.
func (c *Countdown) Reset(seconds int) {
	if seconds < 0 {
		seconds = 0
	}

	c.duration = seconds
	c.remaining = seconds
	c.running = false
	c.fired = false
}

// Start runs the countdown if there is time left on it.
func (c *Countdown) Start() {
	if c.remaining > 0 && !c.fired {
		c.running = true
	}
}

func (c *Countdown) Resume() {
	c.Start()
}

func (c *Countdown) Pause() {
	c.running = false
}

// Stop halts the countdown and clears the remaining time without firing.
func (c *Countdown) Stop() {
	c.running = false
	c.remaining = 0
	c.fired = true
}

// Tick decrements the remaining time by one second while running and
// returns what is left.
func (c *Countdown) Tick() int {
	if !c.running || c.remaining <= 0 {
		return c.remaining
	}

	c.remaining--
	if c.remaining == 0 {
		c.running = false
		if !c.fired {
			c.fired = true
			if c.onTimeUp != nil {
				c.onTimeUp()
			}
		}
	}

	return c.remaining
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) Duration() int {
	return c.duration
}

func (c *Countdown) Running() bool {
	return c.running
}
