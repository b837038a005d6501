package selectors

import (
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
)

func ingredientsOf(s *store.State) []models.Ingredient {
	return s.Ingredients.Ingredients
}

func filterByType(t models.IngredientType) func([]models.Ingredient) []models.Ingredient {
	return func(ingredients []models.Ingredient) []models.Ingredient {
		out := make([]models.Ingredient, 0, len(ingredients))
		for _, ing := range ingredients {
			if ing.Type == t {
				out = append(out, ing)
			}
		}
		return out
	}
}

var (
	buns   = createSelector(ingredientsOf, sameSlice[models.Ingredient], filterByType(models.IngredientBun))
	mains  = createSelector(ingredientsOf, sameSlice[models.Ingredient], filterByType(models.IngredientMain))
	sauces = createSelector(ingredientsOf, sameSlice[models.Ingredient], filterByType(models.IngredientSauce))

	ingredientByID = createParamSelector(ingredientsOf, sameSlice[models.Ingredient],
		func(ingredients []models.Ingredient, id string) *models.Ingredient {
			for i := range ingredients {
				if ingredients[i].ID == id {
					return &ingredients[i]
				}
			}
			return nil
		})
)

// Ingredients returns the loaded catalog
func Ingredients(s *store.State) []models.Ingredient {
	return ingredientsOf(s)
}

func IngredientsLoading(s *store.State) bool {
	return s.Ingredients.Loading
}

func IngredientsError(s *store.State) string {
	return s.Ingredients.Error
}

// Buns returns the catalog entries usable as the frame of a burger
func Buns(s *store.State) []models.Ingredient {
	return buns.Select(s)
}

func Mains(s *store.State) []models.Ingredient {
	return mains.Select(s)
}

func Sauces(s *store.State) []models.Ingredient {
	return sauces.Select(s)
}

// IngredientByID finds a catalog entry, or nil when the id is unknown. The
// returned pointer aliases the catalog and must not be modified.
func IngredientByID(s *store.State, id string) *models.Ingredient {
	return ingredientByID.Select(s, id)
}
