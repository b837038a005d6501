package store

import (
	"context"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

const (
	OpFetchIngredients = "ingredients/fetchIngredients"

	msgIngredientsFailed = "Failed to load ingredients"
)

// IngredientsState holds the catalog fetched from the API
type IngredientsState struct {
	Ingredients []models.Ingredient
	Loading     bool
	Error       string
	Requests    Requests
}

// ClearIngredientsError resets the catalog error
type ClearIngredientsError struct{}

func (ClearIngredientsError) ActionType() string { return "ingredients/clearError" }

func reduceIngredients(s *IngredientsState, action Action) *IngredientsState {
	switch a := action.(type) {
	case ClearIngredientsError:
		if s.Error == "" {
			return s
		}
		next := *s
		next.Error = ""
		return &next

	case AsyncAction[[]models.Ingredient]:
		if a.Op != OpFetchIngredients {
			return s
		}
		next := *s
		next.Requests = track(s.Requests, a)
		switch a.Phase {
		case PhasePending:
			next.Loading = true
			next.Error = ""
		case PhaseFulfilled:
			next.Loading = false
			next.Ingredients = a.Payload
		case PhaseRejected:
			next.Loading = false
			next.Error = a.Error
		}
		return &next
	}
	return s
}

// FetchIngredients loads the whole catalog, replacing the current one on success
func (s *Store) FetchIngredients(ctx context.Context) error {
	_, err := runAsync(ctx, s, OpFetchIngredients, msgIngredientsFailed, s.api.GetIngredients)
	return err
}

// ClearIngredientsError dispatches ClearIngredientsError
func (s *Store) ClearIngredientsError() {
	s.Dispatch(ClearIngredientsError{})
}
