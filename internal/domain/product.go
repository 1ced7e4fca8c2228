package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Category is a navigation property populated
// on demand via the Includes mechanism; CategoryID is always set.
type Product struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	Category      *Category  `json:"category,omitempty"`
	Name          string     `json:"name"`
	SKU           string     `json:"sku"`
	Description   *string    `json:"description,omitempty"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	IsActive      bool       `json:"is_active"`
	Status        Status     `json:"status"`
	Visibility    Visibility `json:"visibility"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// NewProduct creates a product with a fresh identifier and timestamps.
func NewProduct(categoryID uuid.UUID, name, sku string, price float64) Product {
	now := time.Now()
	return Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		SKU:        sku,
		Price:      price,
		Status:     StatusDraft,
		Visibility: VisibilityHidden,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
