// Package prefs persists user preferences: durations and categories.
package prefs

import (
	"context"
	"strings"

	"github.com/verte-zerg/odak/internal/category"
	"github.com/verte-zerg/odak/internal/log"
	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/store"
)

// storedDurations uses pointers so missing fields keep their defaults.
type storedDurations struct {
	Focus *int `json:"focus"`
	Short *int `json:"short"`
	Long  *int `json:"long"`
}

// Prefs owns the durations, category and categories keys.
type Prefs struct {
	backend store.Backend
	logger  *log.Logger

	durations  model.Durations
	category   string
	categories *category.Set
}

// Load reads preferences from backend. Missing or malformed values fall
// back to defaults; read errors are logged and treated as missing.
func Load(ctx context.Context, backend store.Backend, logger *log.Logger) *Prefs {
	p := &Prefs{
		backend:    backend,
		logger:     logger,
		durations:  model.DefaultDurations(),
		category:   model.DefaultCategory,
		categories: category.New(category.Defaults...),
	}

	var sd storedDurations
	ok, err := store.LoadJSON(ctx, backend, store.KeyDurations, &sd)
	logger.StorageError(store.KeyDurations, err)
	if ok {
		p.durations = mergeDurations(p.durations, sd)
	}

	var labels []string
	ok, err = store.LoadJSON(ctx, backend, store.KeyCategories, &labels)
	logger.StorageError(store.KeyCategories, err)
	if ok {
		for _, label := range labels {
			p.categories.Add(label)
		}
	}

	selected, ok, err := store.LoadString(ctx, backend, store.KeyCategory)
	logger.StorageError(store.KeyCategory, err)
	if ok && strings.TrimSpace(selected) != "" {
		p.category = strings.TrimSpace(selected)
	}
	p.ensureSelected()
	return p
}

func mergeDurations(base model.Durations, sd storedDurations) model.Durations {
	if sd.Focus != nil {
		base.Focus = *sd.Focus
	}
	if sd.Short != nil {
		base.Short = *sd.Short
	}
	if sd.Long != nil {
		base.Long = *sd.Long
	}
	return base.Clamp()
}

// Durations returns the configured durations.
func (p *Prefs) Durations() model.Durations {
	return p.durations
}

// Category returns the selected category label.
func (p *Prefs) Category() string {
	return p.category
}

// Categories returns the category set. Callers must not mutate it directly.
func (p *Prefs) Categories() *category.Set {
	return p.categories
}

// SetDurations clamps and stores d, returning the stored value.
func (p *Prefs) SetDurations(ctx context.Context, d model.Durations) model.Durations {
	p.durations = d.Clamp()
	p.logger.StorageError(store.KeyDurations, store.SaveJSON(ctx, p.backend, store.KeyDurations, p.durations))
	return p.durations
}

// SelectCategory makes label the active category, inserting it into the set
// when it is new. Blank labels are ignored.
func (p *Prefs) SelectCategory(ctx context.Context, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return p.category
	}
	p.category = label
	if p.ensureSelected() {
		p.saveCategories(ctx)
	}
	p.logger.StorageError(store.KeyCategory, store.SaveString(ctx, p.backend, store.KeyCategory, p.category))
	return p.category
}

// AddCategory inserts label without selecting it.
func (p *Prefs) AddCategory(ctx context.Context, label string) bool {
	if !p.categories.Add(label) {
		return false
	}
	p.saveCategories(ctx)
	return true
}

// ensureSelected keeps the selected category a member of the set, using the
// set's spelling for fold-equal labels. It reports whether the set grew.
func (p *Prefs) ensureSelected() bool {
	if canonical, ok := p.categories.Canonical(p.category); ok {
		p.category = canonical
		return false
	}
	return p.categories.Add(p.category)
}

func (p *Prefs) saveCategories(ctx context.Context) {
	err := store.SaveJSON(ctx, p.backend, store.KeyCategories, p.categories.Labels())
	p.logger.StorageError(store.KeyCategories, err)
}
