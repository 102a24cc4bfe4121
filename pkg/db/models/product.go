package models

import (
	"time"

	"github.com/google/uuid"
)

// Product groups the sellable variants of a single menu entry.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	PrivateNote string    `gorm:"column:private_note" json:"private_note"`
	Variants    []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Variant is the orderable unit of a product, carrying its own price.
type Variant struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID   uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index" json:"-"`
	Name        string              `gorm:"column:name;not null" json:"name"`
	Description string              `gorm:"column:description" json:"description"`
	PrivateNote string              `gorm:"column:private_note" json:"private_note"`
	Price       int64               `gorm:"column:price;not null" json:"price"`
	Product     *Product            `gorm:"foreignKey:ProductID" json:"-"`
	Ingredients []VariantIngredient `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
