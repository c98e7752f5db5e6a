// Package stats records completed focus intervals and aggregates them.
package stats

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/odak/internal/log"
	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/store"
)

// Store owns the lifetime counters and the focus event log.
//
// The event log is the source of truth for daily and weekly aggregation.
// categoryMinutes is a derived index of the same data kept for lifetime
// lookups; it outlives evicted events, so it may exceed a replay of the log
// but never falls below it.
type Store struct {
	backend store.Backend
	logger  *log.Logger
	now     func() time.Time
	loc     *time.Location

	mu              sync.Mutex
	events          []model.FocusEvent
	categoryMinutes map[string]int
	totalMinutes    int
	focusCount      int
	colors          *ColorMap
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the calendar used for day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		s.loc = loc
	}
}

// WithLogger sets where swallowed storage errors are recorded.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Load reads counters and events from backend. Missing or malformed values
// fall back to empty defaults.
func Load(ctx context.Context, backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend:         backend,
		now:             time.Now,
		loc:             time.Local,
		categoryMinutes: map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}

	var events []model.FocusEvent
	ok, err := store.LoadJSON(ctx, backend, store.KeyFocusEvents, &events)
	s.logger.StorageError(store.KeyFocusEvents, err)
	if !ok {
		events = nil
	}
	s.events = sanitizeEvents(events)

	var cached map[string]int
	ok, err = store.LoadJSON(ctx, backend, store.KeyCategoryMinutes, &cached)
	s.logger.StorageError(store.KeyCategoryMinutes, err)
	if !ok {
		cached = nil
	}
	for label, minutes := range cached {
		if strings.TrimSpace(label) == "" || minutes <= 0 {
			continue
		}
		s.categoryMinutes[label] = minutes
	}

	total, _, err := store.LoadInt(ctx, backend, store.KeyTotalMinutes)
	s.logger.StorageError(store.KeyTotalMinutes, err)
	s.totalMinutes = total

	count, _, err := store.LoadInt(ctx, backend, store.KeyFocusStreak)
	s.logger.StorageError(store.KeyFocusStreak, err)
	s.focusCount = count

	s.reconcile()
	s.colors = NewColorMap()
	for _, e := range s.events {
		s.colors.Assign(e.Category)
	}
	// Categories known only from the lifetime cache still have recorded
	// activity; they follow the log in descending-minutes order.
	for _, item := range TopCategories(s.categoryMinutes, 0) {
		s.colors.Assign(item.Category)
	}
	return s
}

func sanitizeEvents(events []model.FocusEvent) []model.FocusEvent {
	out := make([]model.FocusEvent, 0, len(events))
	for _, e := range events {
		if e.Minutes <= 0 || e.Timestamp <= 0 || strings.TrimSpace(e.Category) == "" {
			continue
		}
		out = append(out, e)
	}
	if len(out) > model.MaxEvents {
		out = append([]model.FocusEvent(nil), out[len(out)-model.MaxEvents:]...)
	}
	return out
}

// reconcile raises the cached counters to at least what the event log proves.
func (s *Store) reconcile() {
	replayed := Replay(s.events)
	logTotal := 0
	for label, minutes := range replayed {
		logTotal += minutes
		if s.categoryMinutes[label] < minutes {
			s.categoryMinutes[label] = minutes
		}
	}
	if s.totalMinutes < logTotal {
		s.totalMinutes = logTotal
	}
	if s.focusCount < len(s.events) {
		s.focusCount = len(s.events)
	}
}

// Replay sums minutes per category over events.
func Replay(events []model.FocusEvent) map[string]int {
	out := map[string]int{}
	for _, e := range events {
		out[e.Category] += e.Minutes
	}
	return out
}

// RecordCompletion appends a focus event for category and updates the
// lifetime counters. Persistence is best-effort.
func (s *Store) RecordCompletion(ctx context.Context, category string, minutes int) {
	if minutes <= 0 {
		return
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.DefaultCategory
	}

	s.mu.Lock()
	s.events = append(s.events, model.FocusEvent{
		Timestamp: s.now().UnixMilli(),
		Category:  category,
		Minutes:   minutes,
	})
	if over := len(s.events) - model.MaxEvents; over > 0 {
		s.events = append(s.events[:0:0], s.events[over:]...)
	}
	s.categoryMinutes[category] += minutes
	s.totalMinutes += minutes
	s.focusCount++
	s.colors.Assign(category)

	events := append([]model.FocusEvent(nil), s.events...)
	cached := copyCounts(s.categoryMinutes)
	total := s.totalMinutes
	count := s.focusCount
	s.mu.Unlock()

	s.logger.StorageError(store.KeyFocusEvents, store.SaveJSON(ctx, s.backend, store.KeyFocusEvents, events))
	s.logger.StorageError(store.KeyCategoryMinutes, store.SaveJSON(ctx, s.backend, store.KeyCategoryMinutes, cached))
	s.logger.StorageError(store.KeyTotalMinutes, store.SaveInt(ctx, s.backend, store.KeyTotalMinutes, total))
	s.logger.StorageError(store.KeyFocusStreak, store.SaveInt(ctx, s.backend, store.KeyFocusStreak, count))
}

// TotalMinutes returns lifetime focus minutes.
func (s *Store) TotalMinutes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMinutes
}

// FocusCount returns the lifetime number of completed focus intervals.
func (s *Store) FocusCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusCount
}

// CategoryMinutes returns a copy of the lifetime per-category totals.
func (s *Store) CategoryMinutes() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.categoryMinutes)
}

// Events returns a copy of the event log in chronological order.
func (s *Store) Events() []model.FocusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.FocusEvent(nil), s.events...)
}

// Location returns the calendar used for day boundaries.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the store's current time in its location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// DailyTotals returns minutes per category for the local day offset days
// from today. Offset 0 is today; negative offsets are in the past.
func (s *Store) DailyTotals(offset int) map[string]int {
	return s.Day(offset).ByCategory
}

// Day returns the totals for the local day offset days from today.
func (s *Store) Day(offset int) model.DayTotals {
	now := s.Now()
	start := dayStart(now, offset)
	end := dayStart(now, offset+1)

	s.mu.Lock()
	defer s.mu.Unlock()
	return sumRange(s.events, start, end)
}

// WeeklyTotals returns the Monday-start calendar week containing today.
func (s *Store) WeeklyTotals() model.WeekTotals {
	now := s.Now()
	weekday := (int(now.Weekday()) + 6) % 7
	week := model.WeekTotals{
		Start:      dayStart(now, -weekday),
		ByCategory: map[string]int{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < 7; i++ {
		day := sumRange(s.events, dayStart(now, i-weekday), dayStart(now, i-weekday+1))
		week.Days[i] = day
		week.Total += day.Total
		for label, minutes := range day.ByCategory {
			week.ByCategory[label] += minutes
		}
	}
	return week
}

// CategoryColor returns the palette color assigned to label.
func (s *Store) CategoryColor(label string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colors.Color(label)
}

func dayStart(t time.Time, offset int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, t.Location())
}

func sumRange(events []model.FocusEvent, start, end time.Time) model.DayTotals {
	out := model.DayTotals{Date: start, ByCategory: map[string]int{}}
	from, to := start.UnixMilli(), end.UnixMilli()
	for _, e := range events {
		if e.Timestamp < from || e.Timestamp >= to {
			continue
		}
		out.ByCategory[e.Category] += e.Minutes
		out.Total += e.Minutes
	}
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
