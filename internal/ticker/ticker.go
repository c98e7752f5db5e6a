// Package ticker emits whole-second tick events for the timer.
package ticker

import (
	"math"
	"sync"
	"time"
)

// Tick reports elapsed whole seconds since the previous tick.
type Tick struct {
	Seconds int
	At      time.Time
}

// Ticker is a restartable periodic source. Start and Stop are idempotent.
type Ticker struct {
	period  time.Duration
	now     func() time.Time
	catchUp bool
	c       chan Tick

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithPeriod sets the scheduling period. Defaults to one second.
func WithPeriod(d time.Duration) Option {
	return func(t *Ticker) {
		t.period = d
	}
}

// WithClock overrides the wall clock used to measure elapsed time.
func WithClock(now func() time.Time) Option {
	return func(t *Ticker) {
		t.now = now
	}
}

// WithCatchUp makes each tick carry the real elapsed seconds, so a process
// suspended for an hour reports one 3600-second tick on wake. Without it
// every tick is one second and suspensions freeze the countdown.
func WithCatchUp(enabled bool) Option {
	return func(t *Ticker) {
		t.catchUp = enabled
	}
}

// New returns a stopped Ticker.
func New(opts ...Option) *Ticker {
	t := &Ticker{
		period:  time.Second,
		now:     time.Now,
		catchUp: true,
		c:       make(chan Tick),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// C returns the tick channel. It stays the same across restarts and is
// never closed.
func (t *Ticker) C() <-chan Tick {
	return t.c
}

// Running reports whether ticks are being scheduled.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Start begins scheduling. It reports false if already running.
func (t *Ticker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(t.stop, t.done, t.now())
	return true
}

// Stop halts scheduling and waits for the loop to exit. It reports false if
// already stopped.
func (t *Ticker) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	close(t.stop)
	<-t.done
	t.running = false
	return true
}

func (t *Ticker) loop(stop <-chan struct{}, done chan<- struct{}, last time.Time) {
	defer close(done)
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
		}
		now := t.now()
		seconds := 1
		if t.catchUp {
			seconds = int(math.Round(now.Sub(last).Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			// Advance by what was reported so the rounding remainder
			// carries into the next tick.
			last = last.Add(time.Duration(seconds) * time.Second)
		}
		select {
		case t.c <- Tick{Seconds: seconds, At: now}:
		case <-stop:
			return
		}
	}
}
