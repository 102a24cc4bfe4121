package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a kitchen stock item referenced by variants.
type Ingredient struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Unit        string    `gorm:"column:unit;not null" json:"unit"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// VariantIngredient links a variant to an ingredient with the amount consumed.
type VariantIngredient struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VariantID    uuid.UUID   `gorm:"column:variant_id;type:uuid;not null;index" json:"-"`
	IngredientID uuid.UUID   `gorm:"column:ingredient_id;type:uuid;not null;index" json:"ingredient_id"`
	Quantity     float64     `gorm:"column:quantity;not null" json:"quantity"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
