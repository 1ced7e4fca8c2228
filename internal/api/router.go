package api

import (
	"net/http"

	"github.com/jmallet/catql/internal/repository"
)

// NewRouter mounts the product and category endpoints.
func NewRouter(products repository.ProductRepository, categories repository.CategoryRepository, defaultPageSize int) *http.ServeMux {
	productHandler := NewProductHandler(products, defaultPageSize)
	categoryHandler := NewCategoryHandler(categories)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/products/search", productHandler.Search)
	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("GET /api/products/{id}", productHandler.Get)
	mux.HandleFunc("PUT /api/products/{id}", productHandler.Update)
	mux.HandleFunc("DELETE /api/products/{id}", productHandler.Delete)

	mux.HandleFunc("GET /api/categories", categoryHandler.List)
	mux.HandleFunc("POST /api/categories", categoryHandler.Create)
	mux.HandleFunc("GET /api/categories/{id}", categoryHandler.Get)

	return mux
}
