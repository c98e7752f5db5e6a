package session

import (
	"context"
	"strings"
	"sync"

	"github.com/verte-zerg/odak/internal/log"
	"github.com/verte-zerg/odak/internal/model"
)

// Sink receives completed focus intervals.
type Sink interface {
	RecordCompletion(ctx context.Context, category string, minutes int)
}

// Notifier plays the completion cue.
type Notifier interface {
	Notify(mode model.Mode)
}

// Engine owns a State and serializes every mutation.
type Engine struct {
	mu       sync.Mutex
	state    State
	category string
	sink     Sink
	notifier Notifier
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the completion cue.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithLogger records completions and skips.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithCategory sets the initial category.
func WithCategory(label string) Option {
	return func(e *Engine) {
		e.setCategory(label)
	}
}

// NewEngine returns an engine starting from state. sink may be nil.
func NewEngine(state State, sink Sink, opts ...Option) *Engine {
	e := &Engine{
		state:    state,
		category: model.DefaultCategory,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Category returns the label attached to the next focus completion.
func (e *Engine) Category() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.category
}

// SetCategory changes the label attached to focus completions. Blank
// labels are ignored.
func (e *Engine) SetCategory(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setCategory(label)
}

func (e *Engine) setCategory(label string) {
	if label = strings.TrimSpace(label); label != "" {
		e.category = label
	}
}

// Start resumes the countdown.
func (e *Engine) Start() State {
	return e.apply(Event{Kind: EventStart})
}

// Pause stops the countdown without resetting it.
func (e *Engine) Pause() State {
	return e.apply(Event{Kind: EventPause})
}

// Toggle starts a paused countdown or pauses a running one.
func (e *Engine) Toggle() State {
	return e.apply(Event{Kind: EventToggle})
}

// Reset restores the full duration of the current mode and stops.
func (e *Engine) Reset() State {
	return e.apply(Event{Kind: EventReset})
}

// Skip moves to the next mode without recording anything.
func (e *Engine) Skip() State {
	e.mu.Lock()
	from := e.state.Mode
	e.state, _ = Step(e.state, Event{Kind: EventSkip})
	s := e.state
	e.mu.Unlock()
	e.logger.Record(log.LogEvent{Event: log.EventSkipped, Mode: string(from)})
	return s
}

// SetDurations replaces the durations. The current countdown restarts when
// its own duration changed.
func (e *Engine) SetDurations(d model.Durations) State {
	return e.apply(Event{Kind: EventSetDurations, Durations: d})
}

// Tick advances the countdown by one second.
func (e *Engine) Tick(ctx context.Context) *Completion {
	return e.Advance(ctx, 1)
}

// Advance applies up to n ticks, stopping at the first completion. Ticks
// beyond a completion are dropped because the timer stops there.
func (e *Engine) Advance(ctx context.Context, n int) *Completion {
	e.mu.Lock()
	var done *Completion
	for i := 0; i < n && done == nil; i++ {
		if !e.state.Running {
			break
		}
		e.state, done = Step(e.state, Event{Kind: EventTick})
	}
	category := e.category
	if done != nil && done.Focus() && e.sink != nil {
		e.sink.RecordCompletion(ctx, category, done.Minutes)
	}
	e.mu.Unlock()

	if done == nil {
		return nil
	}
	if done.Focus() {
		e.logger.Record(log.LogEvent{Event: log.EventFocusCompleted, Mode: string(done.Mode), Category: category, Minutes: done.Minutes})
	} else {
		e.logger.Record(log.LogEvent{Event: log.EventBreakCompleted, Mode: string(done.Mode), Minutes: done.Minutes})
	}
	if e.notifier != nil {
		e.notifier.Notify(done.Mode)
	}
	return done
}

func (e *Engine) apply(ev Event) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, _ = Step(e.state, ev)
	return e.state
}
