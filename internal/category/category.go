// Package category maintains the set of focus category labels.
package category

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Defaults are always present in the set.
var Defaults = []string{"Genel", "Ders", "Okuma"}

// Key returns the case-folded form of label used for uniqueness. Folding
// follows Turkish rules, so "I" folds to "ı" and "İ" to "i".
func Key(label string) string {
	return cases.Lower(language.Turkish).String(strings.TrimSpace(label))
}

// Equal reports whether two labels name the same category.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Set is an insertion-ordered label set, unique under Key.
type Set struct {
	labels []string
	index  map[string]int
}

// New builds a set from labels, dropping blanks and fold-equal duplicates.
func New(labels ...string) *Set {
	s := &Set{index: map[string]int{}}
	for _, label := range labels {
		s.Add(label)
	}
	return s
}

// Add inserts label unless a fold-equal label already exists. It reports
// whether the set changed.
func (s *Set) Add(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	key := Key(label)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.labels)
	s.labels = append(s.labels, label)
	return true
}

// Contains reports whether a fold-equal label exists.
func (s *Set) Contains(label string) bool {
	_, ok := s.index[Key(label)]
	return ok
}

// Canonical returns the stored spelling for label.
func (s *Set) Canonical(label string) (string, bool) {
	i, ok := s.index[Key(label)]
	if !ok {
		return "", false
	}
	return s.labels[i], true
}

// Len returns the number of labels.
func (s *Set) Len() int {
	return len(s.labels)
}

// Labels returns the labels in insertion order.
func (s *Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Sorted returns the labels ordered by Turkish collation, ignoring case.
func (s *Set) Sorted() []string {
	out := s.Labels()
	collate.New(language.Turkish, collate.IgnoreCase).SortStrings(out)
	return out
}

// Next returns the label after current in insertion order, wrapping around.
func (s *Set) Next(current string) string {
	if len(s.labels) == 0 {
		return current
	}
	i, ok := s.index[Key(current)]
	if !ok {
		return s.labels[0]
	}
	return s.labels[(i+1)%len(s.labels)]
}
