package stats

import "github.com/verte-zerg/odak/internal/category"

// Palette is the fixed set of category colors.
var Palette = []string{
	"#C89A3A",
	"#4FA3D1",
	"#E0707A",
	"#7BC47F",
	"#B48EDB",
	"#E8A25C",
	"#5CC9C0",
	"#D6D06B",
}

// NeutralColor is used for categories without recorded activity.
const NeutralColor = "#8C8C8C"

// ColorMap assigns palette colors to categories in first-seen order. It is
// rebuilt on every load and never persisted.
type ColorMap struct {
	assigned map[string]int
}

// NewColorMap returns an empty map.
func NewColorMap() *ColorMap {
	return &ColorMap{assigned: map[string]int{}}
}

// Assign gives label the next palette slot unless it already has one.
func (c *ColorMap) Assign(label string) string {
	key := category.Key(label)
	idx, ok := c.assigned[key]
	if !ok {
		idx = len(c.assigned)
		c.assigned[key] = idx
	}
	return Palette[idx%len(Palette)]
}

// Color returns the assigned color, or NeutralColor for unseen labels.
func (c *ColorMap) Color(label string) string {
	idx, ok := c.assigned[category.Key(label)]
	if !ok {
		return NeutralColor
	}
	return Palette[idx%len(Palette)]
}
