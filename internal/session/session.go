// Package session implements the focus timer state machine.
package session

import "github.com/verte-zerg/odak/internal/model"

// LongBreakEvery is the number of completed focus intervals per long break.
const LongBreakEvery = 4

// State is the live timer state.
type State struct {
	Mode           model.Mode
	Remaining      int
	Running        bool
	Durations      model.Durations
	CompletedFocus int
	TotalMinutes   int
}

// NewState returns a stopped focus countdown for d, continuing from the
// given lifetime counters.
func NewState(d model.Durations, completedFocus, totalMinutes int) State {
	d = d.Clamp()
	return State{
		Mode:           model.ModeFocus,
		Remaining:      d.Seconds(model.ModeFocus),
		Durations:      d,
		CompletedFocus: completedFocus,
		TotalMinutes:   totalMinutes,
	}
}

// EventKind enumerates state machine inputs.
type EventKind int

// Event kinds.
const (
	EventStart EventKind = iota
	EventPause
	EventToggle
	EventReset
	EventSkip
	EventTick
	EventSetDurations
)

// Event is a state machine input. Durations is only read by EventSetDurations.
type Event struct {
	Kind      EventKind
	Durations model.Durations
}

// Completion describes a countdown that reached zero.
type Completion struct {
	Mode    model.Mode
	Minutes int
	Next    model.Mode
}

// Focus reports whether the completed interval must be recorded.
func (c Completion) Focus() bool {
	return c.Mode == model.ModeFocus
}

// NextMode applies the transition rule to s.
func NextMode(s State) model.Mode {
	if s.Mode != model.ModeFocus {
		return model.ModeFocus
	}
	if (s.CompletedFocus+1)%LongBreakEvery == 0 {
		return model.ModeLong
	}
	return model.ModeShort
}

// Step applies ev to s and returns the new state. The returned Completion is
// non-nil only when a tick drove the countdown to zero.
func Step(s State, ev Event) (State, *Completion) {
	switch ev.Kind {
	case EventStart:
		if s.Remaining > 0 {
			s.Running = true
		}
	case EventPause:
		s.Running = false
	case EventToggle:
		if s.Running {
			s.Running = false
		} else if s.Remaining > 0 {
			s.Running = true
		}
	case EventReset:
		s.Remaining = s.Durations.Seconds(s.Mode)
		s.Running = false
	case EventSkip:
		s = enter(s, NextMode(s))
	case EventTick:
		return tick(s)
	case EventSetDurations:
		d := ev.Durations.Clamp()
		changed := d.Minutes(s.Mode) != s.Durations.Minutes(s.Mode)
		s.Durations = d
		if changed {
			s.Remaining = d.Seconds(s.Mode)
			s.Running = false
		}
	}
	return s, nil
}

func tick(s State) (State, *Completion) {
	if !s.Running || s.Remaining <= 0 {
		return s, nil
	}
	s.Remaining--
	if s.Remaining > 0 {
		return s, nil
	}
	done := Completion{
		Mode:    s.Mode,
		Minutes: s.Durations.Minutes(s.Mode),
		Next:    NextMode(s),
	}
	if done.Focus() {
		s.CompletedFocus++
		s.TotalMinutes += done.Minutes
	}
	s = enter(s, done.Next)
	return s, &done
}

func enter(s State, mode model.Mode) State {
	s.Mode = mode
	s.Remaining = s.Durations.Seconds(mode)
	s.Running = false
	return s
}
