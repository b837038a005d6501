package store

import (
	"slices"

	"github.com/google/uuid"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// ConstructorState is the burger being assembled. Bun is the single frame
// slot; Ingredients holds the fillings in build order and never contains a bun.
type ConstructorState struct {
	Bun         *models.ConstructionItem
	Ingredients []models.ConstructionItem
}

// AddIngredient places Item into the construction
type AddIngredient struct {
	Item models.ConstructionItem
}

func (AddIngredient) ActionType() string { return "constructor/addIngredient" }

// RemoveIngredient drops the filling with the given instance id
type RemoveIngredient struct {
	InstanceID string
}

func (RemoveIngredient) ActionType() string { return "constructor/removeIngredient" }

// MoveIngredient moves the filling at From to position To
type MoveIngredient struct {
	From int
	To   int
}

func (MoveIngredient) ActionType() string { return "constructor/moveIngredient" }

// ClearConstructor empties the construction
type ClearConstructor struct{}

func (ClearConstructor) ActionType() string { return "constructor/clearConstructor" }

// IDGenerator returns a fresh instance identifier on every call
type IDGenerator func() string

// NewInstanceID is the default IDGenerator
func NewInstanceID() string {
	return uuid.NewString()
}

// NewAddIngredient binds ingredient to a new instance id. The id is produced
// here rather than in the reducer so that reducing stays deterministic.
func NewAddIngredient(ingredient models.Ingredient, newID IDGenerator) AddIngredient {
	if newID == nil {
		newID = NewInstanceID
	}
	return AddIngredient{Item: models.ConstructionItem{Ingredient: ingredient, InstanceID: newID()}}
}

func reduceConstructor(s *ConstructorState, action Action) *ConstructorState {
	switch a := action.(type) {
	case AddIngredient:
		next := *s
		if a.Item.Type.IsFrame() {
			item := a.Item
			next.Bun = &item
			return &next
		}
		next.Ingredients = append(slices.Clip(s.Ingredients), a.Item)
		return &next

	case RemoveIngredient:
		idx := slices.IndexFunc(s.Ingredients, func(item models.ConstructionItem) bool {
			return item.InstanceID == a.InstanceID
		})
		if idx < 0 {
			return s
		}
		next := *s
		next.Ingredients = slices.Delete(slices.Clone(s.Ingredients), idx, idx+1)
		return &next

	case MoveIngredient:
		n := len(s.Ingredients)
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n || a.From == a.To {
			return s
		}
		moved := s.Ingredients[a.From]
		fillings := slices.Delete(slices.Clone(s.Ingredients), a.From, a.From+1)
		next := *s
		next.Ingredients = slices.Insert(fillings, a.To, moved)
		return &next

	case ClearConstructor:
		return &ConstructorState{Ingredients: []models.ConstructionItem{}}
	}
	return s
}

// AddIngredient places ingredient into the construction: a bun replaces the
// current bun, anything else is appended to the fillings.
// It returns the instance id assigned to the placement.
func (s *Store) AddIngredient(ingredient models.Ingredient) string {
	action := NewAddIngredient(ingredient, s.newID)
	s.Dispatch(action)
	return action.Item.InstanceID
}

// RemoveIngredient removes a filling by instance id; unknown ids are ignored
func (s *Store) RemoveIngredient(instanceID string) {
	s.Dispatch(RemoveIngredient{InstanceID: instanceID})
}

// MoveIngredient reorders the fillings
func (s *Store) MoveIngredient(from, to int) {
	s.Dispatch(MoveIngredient{From: from, To: to})
}

// ClearConstructor resets the construction to empty
func (s *Store) ClearConstructor() {
	s.Dispatch(ClearConstructor{})
}
