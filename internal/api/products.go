package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/repository"
)

// ProductHandler serves product search and CRUD endpoints.
type ProductHandler struct {
	products        repository.ProductRepository
	defaultPageSize int
}

func NewProductHandler(products repository.ProductRepository, defaultPageSize int) *ProductHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 100
	}
	return &ProductHandler{products: products, defaultPageSize: defaultPageSize}
}

type searchResponse struct {
	Items  []domain.Product `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	spec, err := req.ToSpecification()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.defaultPageSize
	}
	offset := max(req.Offset, 0)

	items, err := h.products.Page(r.Context(), spec, limit, offset)
	if err != nil {
		log.Printf("[API] product search failed: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	total, err := h.products.Count(r.Context(), spec)
	if err != nil {
		log.Printf("[API] product count failed: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// productInput uses pointers for scalar fields so an update can tell an
// omitted field apart from an explicit zero.
type productInput struct {
	CategoryID    uuid.UUID `json:"category_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	StockQuantity *int      `json:"stock_quantity"`
	IsActive      *bool     `json:"is_active"`
	Status        string    `json:"status"`
	Visibility    *int      `json:"visibility"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.SKU == "" {
		http.Error(w, "name and sku are required", http.StatusBadRequest)
		return
	}
	if input.CategoryID == uuid.Nil {
		http.Error(w, "category_id is required", http.StatusBadRequest)
		return
	}

	price := 0.0
	if input.Price != nil {
		price = *input.Price
	}
	product := domain.NewProduct(input.CategoryID, input.Name, input.SKU, price)
	product.Description = input.Description
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		product.Status = status
	}
	if input.Visibility != nil {
		product.Visibility = domain.Visibility(*input.Visibility)
	}

	created, err := h.products.Create(r.Context(), product)
	if err != nil {
		log.Printf("[API] product create failed: %v", err)
		http.Error(w, "create failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("[API] product get failed: %v", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("[API] product update failed: %v", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}

	if input.CategoryID != uuid.Nil {
		product.CategoryID = input.CategoryID
	}
	if input.Name != "" {
		product.Name = input.Name
	}
	if input.SKU != "" {
		product.SKU = input.SKU
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		product.Status = status
	}
	if input.Visibility != nil {
		product.Visibility = domain.Visibility(*input.Visibility)
	}

	updated, err := h.products.Update(r.Context(), product)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("[API] product update failed: %v", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("[API] product delete failed: %v", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid id: %v", err), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}
