package selectors

import (
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// IngredientCount is a catalog ingredient with the number of times an order uses it
type IngredientCount struct {
	models.Ingredient
	Count int
}

// GroupOrderIngredients counts how often each catalog ingredient appears in
// an order, keeping the order of first appearance. Ids missing from the
// catalog are skipped.
func GroupOrderIngredients(ids []string, catalog []models.Ingredient) []IngredientCount {
	byID := make(map[string]int, len(catalog))
	for i, ing := range catalog {
		if _, ok := byID[ing.ID]; !ok {
			byID[ing.ID] = i
		}
	}

	groups := make([]IngredientCount, 0, len(ids))
	position := map[string]int{}
	for _, id := range ids {
		if at, ok := position[id]; ok {
			groups[at].Count++
			continue
		}
		i, ok := byID[id]
		if !ok {
			continue
		}
		position[id] = len(groups)
		groups = append(groups, IngredientCount{Ingredient: catalog[i], Count: 1})
	}
	return groups
}

// OrderTotal sums price times count over the groups
func OrderTotal(groups []IngredientCount) int {
	total := 0
	for _, g := range groups {
		total += g.Price * g.Count
	}
	return total
}

// RelativeDay renders t relative to now in whole calendar days of now's
// location: "Today", "Yesterday" or "N days ago". Future dates read as today.
func RelativeDay(t, now time.Time) string {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	ty, tm, td := t.In(now.Location()).Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())

	days := int(today.Sub(day).Hours()+12) / 24
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
