// Package catalog holds the searchable menu snapshot and the nutrient filters
// applied to it.
package catalog

import "strings"

// SearchItem is the projection of a menu item used for search and filtering.
type SearchItem struct {
	ID         int     `json:"id"          db:"id"`
	Restaurant string  `json:"restaurant"  db:"restaurant"`
	Item       string  `json:"item"        db:"item"`
	Calories   int     `json:"calories"    db:"calories"`
	TotalFat   float64 `json:"total_fat"   db:"total_fat"`
	TotalCarb  float64 `json:"total_carb"  db:"total_carb"`
	Protein    float64 `json:"protein"     db:"protein"`
}

// Filter is a named nutrient predicate.
type Filter string

const (
	FilterCalorie Filter = "calorie" // under 400 kcal
	FilterProtein Filter = "protein" // more than 30% of energy from protein
	FilterFat     Filter = "fat"     // less than 20% of energy from fat
	FilterCarb    Filter = "carb"    // less than 26% of energy from carbs
)

// ParseFilters accepts repeated and comma-separated values
// (?filter=calorie&filter=fat or ?filter=calorie,fat). Unknown names are
// dropped.
func ParseFilters(values []string) []Filter {
	var out []Filter
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			f := Filter(strings.ToLower(strings.TrimSpace(name)))
			switch f {
			case FilterCalorie, FilterProtein, FilterFat, FilterCarb:
				out = append(out, f)
			}
		}
	}
	return out
}

// Match reports whether item passes f.
func (f Filter) Match(item SearchItem) bool {
	kcal := float64(item.Calories)
	switch f {
	case FilterCalorie:
		return item.Calories < 400
	case FilterProtein:
		return item.Protein*4 > kcal*0.3
	case FilterFat:
		return item.TotalFat*9 < kcal*0.2
	case FilterCarb:
		return item.TotalCarb*4 < kcal*0.26
	}
	return true
}

// Apply returns the items that pass every filter, in their original order.
func Apply(items []SearchItem, filters []Filter) []SearchItem {
	out := make([]SearchItem, 0, len(items))
next:
	for _, item := range items {
		for _, f := range filters {
			if !f.Match(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}
