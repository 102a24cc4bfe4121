package products

import "github.com/google/uuid"

// VariantIngredientInput links an ingredient with the amount one variant uses.
type VariantIngredientInput struct {
	IngredientID uuid.UUID
	Quantity     float64
}

// VariantInput describes one orderable variant of a product.
type VariantInput struct {
	Name        string
	Description string
	PrivateNote string
	Price       int64
	Ingredients []VariantIngredientInput
}

// CreateProductInput carries the fields for a new product and its variants.
type CreateProductInput struct {
	Name        string
	Description string
	PrivateNote string
	Variants    []VariantInput
}

// UpdateProductInput carries the editable fields of a product. Nil pointers
// leave the stored value untouched; Variants, when present, replaces the full
// variant list.
type UpdateProductInput struct {
	ProductID   uuid.UUID
	Name        *string
	Description *string
	PrivateNote *string
	Variants    []VariantInput
}

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	Query string
}
