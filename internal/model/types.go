// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode is a timer phase.
type Mode string

// Timer modes.
const (
	ModeFocus Mode = "focus"
	ModeShort Mode = "short"
	ModeLong  Mode = "long"
)

// Duration limits in minutes.
const (
	MinDuration = 1
	MaxDuration = 180
)

// MaxEvents bounds the focus event log.
const MaxEvents = 1000

// DefaultCategory is the label used when none has been selected.
const DefaultCategory = "Genel"

// Label returns a human readable name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeShort:
		return "Short break"
	case ModeLong:
		return "Long break"
	default:
		return "Focus"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeFocus || m == ModeShort || m == ModeLong
}

// Durations holds configured interval lengths in minutes.
type Durations struct {
	Focus int `json:"focus"`
	Short int `json:"short"`
	Long  int `json:"long"`
}

// DefaultDurations returns the stock 25/5/15 configuration.
func DefaultDurations() Durations {
	return Durations{Focus: 25, Short: 5, Long: 15}
}

// Clamp forces every value into [MinDuration, MaxDuration].
func (d Durations) Clamp() Durations {
	return Durations{
		Focus: ClampMinutes(d.Focus),
		Short: ClampMinutes(d.Short),
		Long:  ClampMinutes(d.Long),
	}
}

// Minutes returns the configured length of mode.
func (d Durations) Minutes(mode Mode) int {
	switch mode {
	case ModeShort:
		return d.Short
	case ModeLong:
		return d.Long
	default:
		return d.Focus
	}
}

// Seconds returns the configured length of mode in seconds.
func (d Durations) Seconds(mode Mode) int {
	return d.Minutes(mode) * 60
}

func (d Durations) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Focus, d.Short, d.Long)
}

// ClampMinutes clamps a single duration value.
func ClampMinutes(v int) int {
	if v < MinDuration {
		return MinDuration
	}
	if v > MaxDuration {
		return MaxDuration
	}
	return v
}

// FocusEvent records one completed focus interval.
type FocusEvent struct {
	Timestamp int64  `json:"ts" yaml:"ts"`
	Category  string `json:"category" yaml:"category"`
	Minutes   int    `json:"minutes" yaml:"minutes"`
}

// Time returns the event timestamp in the given location.
func (e FocusEvent) Time(loc *time.Location) time.Time {
	return time.UnixMilli(e.Timestamp).In(loc)
}

// DayTotals aggregates focus minutes for one calendar day.
type DayTotals struct {
	Date       time.Time      `json:"date" yaml:"date"`
	Total      int            `json:"total" yaml:"total"`
	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
}

// WeekTotals aggregates focus minutes for a Monday-start week.
type WeekTotals struct {
	Start      time.Time      `json:"start" yaml:"start"`
	Days       [7]DayTotals   `json:"days" yaml:"days"`
	Total      int            `json:"total" yaml:"total"`
	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
}
