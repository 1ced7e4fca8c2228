package query

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

func typeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// Fixture entity graph shared by the tests in this package. It mirrors the
// catalog shape: a product with scalar members, a nullable text member, two
// enum members and a to-one navigation.

type fixtureStatus string

const (
	fixtureStatusDraft        fixtureStatus = "DRAFT"
	fixtureStatusActive       fixtureStatus = "ACTIVE"
	fixtureStatusDiscontinued fixtureStatus = "DISCONTINUED"
)

type fixturePriority int

const (
	fixturePriorityLow    fixturePriority = 0
	fixturePriorityMedium fixturePriority = 5
	fixturePriorityHigh   fixturePriority = 9
)

func init() {
	RegisterEnum(map[string]fixtureStatus{
		"Draft":        fixtureStatusDraft,
		"Active":       fixtureStatusActive,
		"Discontinued": fixtureStatusDiscontinued,
	})
	RegisterEnum(map[string]fixturePriority{
		"Low":    fixturePriorityLow,
		"Medium": fixturePriorityMedium,
		"High":   fixturePriorityHigh,
	})
}

type fixtureCategory struct {
	ID   uuid.UUID
	Name string
	Slug string
}

type fixtureProduct struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	Price         float64
	StockQuantity int
	IsActive      bool
	Status        fixtureStatus
	Priority      fixturePriority
	Category      *fixtureCategory
	CreatedAt     time.Time
}

func strPtr(s string) *string { return &s }

func mustCondition(t interface{ Fatalf(string, ...any) }, path string, op Operation, value any) Condition {
	c, err := NewCondition(path, op, value)
	if err != nil {
		t.Fatalf("building condition for %s: %v", path, err)
	}
	return c
}

// fixtureProducts returns a stable dataset with known distribution: prices
// step by 50 starting at 25, every third product inactive, stock zero on
// every fifth.
func fixtureProducts(n int) []fixtureProduct {
	electronics := &fixtureCategory{ID: uuid.New(), Name: "Electronics", Slug: "electronics"}
	garden := &fixtureCategory{ID: uuid.New(), Name: "Garden", Slug: "garden"}

	products := make([]fixtureProduct, 0, n)
	for i := 0; i < n; i++ {
		p := fixtureProduct{
			ID:            uuid.New(),
			Name:          "Product " + string(rune('A'+i%26)),
			Price:         25 + float64(i)*50,
			StockQuantity: i,
			IsActive:      i%3 != 0,
			Status:        fixtureStatusActive,
			Priority:      fixturePriorityMedium,
			Category:      electronics,
			CreatedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		}
		if i%5 == 0 {
			p.StockQuantity = 0
		}
		if i%2 == 0 {
			p.Category = garden
		}
		products = append(products, p)
	}
	return products
}
