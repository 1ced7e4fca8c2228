package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products and is reachable from Product as a navigation
// property.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a category with a fresh identifier.
func NewCategory(name, slug string) Category {
	return Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}
}
