package stats

import (
	"sort"

	"github.com/verte-zerg/odak/internal/category"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryTotal pairs a category with its minutes.
type CategoryTotal struct {
	Category string `json:"category" yaml:"category"`
	Minutes  int    `json:"minutes" yaml:"minutes"`
}

// TopCategories orders totals by minutes, descending. Ties are broken by
// Turkish collation of the label. n <= 0 returns every category.
func TopCategories(totals map[string]int, n int) []CategoryTotal {
	if len(totals) == 0 {
		return nil
	}
	items := make([]CategoryTotal, 0, len(totals))
	for label, minutes := range totals {
		items = append(items, CategoryTotal{Category: label, Minutes: minutes})
	}
	col := collate.New(language.Turkish, collate.IgnoreCase)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Minutes == items[j].Minutes {
			if c := col.CompareString(items[i].Category, items[j].Category); c != 0 {
				return c < 0
			}
			return category.Key(items[i].Category) < category.Key(items[j].Category)
		}
		return items[i].Minutes > items[j].Minutes
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
