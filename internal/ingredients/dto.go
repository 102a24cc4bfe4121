package ingredients

import "github.com/google/uuid"

// CreateIngredientInput carries the fields for a new stock item.
type CreateIngredientInput struct {
	Name        string
	Unit        string
	Description string
}

// UpdateIngredientInput carries the editable fields of an ingredient. Nil
// pointers leave the stored value untouched.
type UpdateIngredientInput struct {
	IngredientID uuid.UUID
	Name         *string
	Unit         *string
	Description  *string
}

// IngredientFilters describe the inputs supported by the ingredient list.
type IngredientFilters struct {
	Query string
}
