package models

// IngredientType is the structural role an ingredient plays in a burger
type IngredientType string

const (
	// IngredientBun is the frame: exactly one per burger, used top and bottom
	IngredientBun IngredientType = "bun"
	// IngredientMain is a main filling
	IngredientMain IngredientType = "main"
	// IngredientSauce is a sauce filling
	IngredientSauce IngredientType = "sauce"
)

// IsFrame reports whether ingredients of this type go into the bun slot
func (t IngredientType) IsFrame() bool {
	return t == IngredientBun
}

// Ingredient represents one orderable catalog component
type Ingredient struct {
	ID            string         `json:"_id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Type          IngredientType `json:"type" gorm:"index;not null"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageMobile   string         `json:"image_mobile"`
	ImageLarge    string         `json:"image_large"`
}

// ConstructionItem is an ingredient placed into a construction.
// InstanceID tells apart several placements of the same catalog ingredient.
type ConstructionItem struct {
	Ingredient
	InstanceID string `json:"id"`
}
