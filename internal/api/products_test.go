package api

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
	"github.com/jmallet/catql/internal/repository"
)

// fakeProductRepo records the last specification and serves canned data.
type fakeProductRepo struct {
	products []domain.Product

	lastSpec   *query.Specification[domain.Product]
	lastLimit  int
	lastOffset int
}

func (f *fakeProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeProductRepo) CreateBatch(ctx context.Context, ps []domain.Product) (int, error) {
	f.products = append(f.products, ps...)
	return len(ps), nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, id := range ids {
		if p, err := f.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProductRepo) List(ctx context.Context, spec *query.Specification[domain.Product]) ([]domain.Product, error) {
	return f.Page(ctx, spec, 0, 0)
}

func (f *fakeProductRepo) Page(ctx context.Context, spec *query.Specification[domain.Product], limit, offset int) ([]domain.Product, error) {
	f.lastSpec = spec
	f.lastLimit = limit
	f.lastOffset = offset

	matched := f.matches(spec)
	if offset > len(matched) {
		return []domain.Product{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeProductRepo) First(ctx context.Context, spec *query.Specification[domain.Product]) (domain.Product, error) {
	matched := f.matches(spec)
	if len(matched) == 0 {
		return domain.Product{}, repository.ErrNotFound
	}
	return matched[0], nil
}

func (f *fakeProductRepo) FirstOrNil(ctx context.Context, spec *query.Specification[domain.Product]) (*domain.Product, error) {
	matched := f.matches(spec)
	if len(matched) == 0 {
		return nil, nil
	}
	return &matched[0], nil
}

func (f *fakeProductRepo) Count(ctx context.Context, spec *query.Specification[domain.Product]) (int64, error) {
	return int64(len(f.matches(spec))), nil
}

func (f *fakeProductRepo) Stream(ctx context.Context, spec *query.Specification[domain.Product], pageSize int) (iter.Seq2[domain.Product, error], error) {
	if !spec.HasOrdering() {
		return nil, query.ErrMissingOrderBy
	}
	fetch := func(ctx context.Context, limit, offset int) ([]domain.Product, error) {
		return f.Page(ctx, spec, limit, offset)
	}
	return query.EnumeratePages(ctx, fetch, pageSize)
}

func (f *fakeProductRepo) matches(spec *query.Specification[domain.Product]) []domain.Product {
	filter := spec.Filter()
	matched := []domain.Product{}
	for _, p := range f.products {
		if filter == nil || filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func testRouter(repo *fakeProductRepo) *http.ServeMux {
	return NewRouter(repo, nil, 50)
}

func seedProduct(name string, price float64, active bool) domain.Product {
	p := domain.NewProduct(uuid.New(), name, "SKU-"+name, price)
	p.IsActive = active
	return p
}

func TestSearch_FiltersAndPaginates(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{
		seedProduct("anvil", 120, true),
		seedProduct("bolt", 2, true),
		seedProduct("crate", 300, false),
	}}
	router := testRouter(repo)

	body := `{"filters":[{"path":"is_active","op":"eq","value":true}],"limit":1,"offset":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected total 2, got %d", resp.Total)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "bolt" {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
	if repo.lastLimit != 1 || repo.lastOffset != 1 {
		t.Fatalf("expected limit/offset 1/1, got %d/%d", repo.lastLimit, repo.lastOffset)
	}
}

func TestSearch_DefaultsPageSize(t *testing.T) {
	repo := &fakeProductRepo{}
	router := testRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.lastLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", repo.lastLimit)
	}
}

func TestSearch_UnknownOperationIsBadRequest(t *testing.T) {
	router := testRouter(&fakeProductRepo{})

	body := `{"filters":[{"path":"name","op":"between","value":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	router := testRouter(&fakeProductRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	repo := &fakeProductRepo{}
	router := testRouter(repo)

	input := map[string]any{
		"category_id": uuid.NewString(),
		"name":        "widget",
		"sku":         "W-1",
		"price":       9.99,
		"status":      "active",
	}
	payload, _ := json.Marshal(input)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.products) != 1 {
		t.Fatalf("expected 1 stored product, got %d", len(repo.products))
	}
	if repo.products[0].Status != domain.StatusActive {
		t.Fatalf("status not parsed: %v", repo.products[0].Status)
	}
}

func TestUpdateProduct_OmittedFieldsPreserved(t *testing.T) {
	p := seedProduct("anvil", 120, true)
	p.StockQuantity = 7
	repo := &fakeProductRepo{products: []domain.Product{p}}
	router := testRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+p.ID.String(),
		strings.NewReader(`{"name":"anvil mk2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := repo.products[0]
	if got.Name != "anvil mk2" {
		t.Fatalf("name not updated: %q", got.Name)
	}
	if got.Price != 120 || got.StockQuantity != 7 || !got.IsActive {
		t.Fatalf("omitted fields must keep their stored values, got price=%v stock=%d active=%v",
			got.Price, got.StockQuantity, got.IsActive)
	}
}

func TestUpdateProduct_ExplicitZeroApplied(t *testing.T) {
	p := seedProduct("anvil", 120, true)
	p.StockQuantity = 7
	repo := &fakeProductRepo{products: []domain.Product{p}}
	router := testRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+p.ID.String(),
		strings.NewReader(`{"stock_quantity":0,"is_active":false}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := repo.products[0]
	if got.StockQuantity != 0 || got.IsActive {
		t.Fatalf("explicit zeros must be applied, got stock=%d active=%v", got.StockQuantity, got.IsActive)
	}
	if got.Price != 120 {
		t.Fatalf("price must be preserved, got %v", got.Price)
	}
}

func TestDeleteProduct(t *testing.T) {
	p := seedProduct("anvil", 120, true)
	repo := &fakeProductRepo{products: []domain.Product{p}}
	router := testRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+p.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(repo.products) != 0 {
		t.Fatalf("product not removed")
	}
}
