package selectors

import (
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
)

func bunOf(s *store.State) *models.ConstructionItem {
	return s.Constructor.Bun
}

func fillingsOf(s *store.State) []models.ConstructionItem {
	return s.Constructor.Ingredients
}

// Items is the construction as rendered: the bun (if any) and the fillings
type Items struct {
	Bun         *models.ConstructionItem
	Ingredients []models.ConstructionItem
}

var (
	constructorItems = createSelector2(
		bunOf, samePtr[models.ConstructionItem],
		fillingsOf, sameSlice[models.ConstructionItem],
		func(bun *models.ConstructionItem, fillings []models.ConstructionItem) Items {
			if fillings == nil {
				fillings = []models.ConstructionItem{}
			}
			return Items{Bun: bun, Ingredients: fillings}
		})

	totalPrice = createSelector2(
		bunOf, samePtr[models.ConstructionItem],
		fillingsOf, sameSlice[models.ConstructionItem],
		func(bun *models.ConstructionItem, fillings []models.ConstructionItem) int {
			total := 0
			if bun != nil {
				total += bun.Price * 2
			}
			for _, item := range fillings {
				total += item.Price
			}
			return total
		})

	canSubmit = createSelector2(
		bunOf, samePtr[models.ConstructionItem],
		fillingsOf, sameSlice[models.ConstructionItem],
		func(bun *models.ConstructionItem, fillings []models.ConstructionItem) bool {
			return bun != nil && len(fillings) > 0
		})

	orderIngredientIDs = createSelector(
		func(s *store.State) *store.ConstructorState { return s.Constructor },
		samePtr[store.ConstructorState],
		store.OrderIngredientIDs)
)

func ConstructorBun(s *store.State) *models.ConstructionItem {
	return bunOf(s)
}

func ConstructorIngredients(s *store.State) []models.ConstructionItem {
	return fillingsOf(s)
}

// ConstructorItems returns the bun and fillings together, fillings never nil
func ConstructorItems(s *store.State) Items {
	return constructorItems.Select(s)
}

// TotalPrice is twice the bun price plus the price of every filling
func TotalPrice(s *store.State) int {
	return totalPrice.Select(s)
}

// CanSubmit reports whether the construction has a bun and at least one filling
func CanSubmit(s *store.State) bool {
	return canSubmit.Select(s)
}

// OrderIngredientIDs lists the catalog ids an order for the current
// construction carries: bun, fillings in order, bun again
func OrderIngredientIDs(s *store.State) []string {
	return orderIngredientIDs.Select(s)
}
