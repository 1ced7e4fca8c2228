package export

import (
	"context"
	"iter"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
	"github.com/jmallet/catql/internal/repository"
)

type streamOnlyRepo struct {
	products []domain.Product
}

func (f *streamOnlyRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return p, nil
}

func (f *streamOnlyRepo) CreateBatch(ctx context.Context, ps []domain.Product) (int, error) {
	return len(ps), nil
}

func (f *streamOnlyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return domain.Product{}, repository.ErrNotFound
}

func (f *streamOnlyRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	return nil, nil
}

func (f *streamOnlyRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	return p, nil
}

func (f *streamOnlyRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *streamOnlyRepo) List(ctx context.Context, spec *query.Specification[domain.Product]) ([]domain.Product, error) {
	return f.products, nil
}

func (f *streamOnlyRepo) Page(ctx context.Context, spec *query.Specification[domain.Product], limit, offset int) ([]domain.Product, error) {
	if offset > len(f.products) {
		return []domain.Product{}, nil
	}
	out := f.products[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *streamOnlyRepo) First(ctx context.Context, spec *query.Specification[domain.Product]) (domain.Product, error) {
	return domain.Product{}, repository.ErrNotFound
}

func (f *streamOnlyRepo) FirstOrNil(ctx context.Context, spec *query.Specification[domain.Product]) (*domain.Product, error) {
	return nil, nil
}

func (f *streamOnlyRepo) Count(ctx context.Context, spec *query.Specification[domain.Product]) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *streamOnlyRepo) Stream(ctx context.Context, spec *query.Specification[domain.Product], pageSize int) (iter.Seq2[domain.Product, error], error) {
	if !spec.HasOrdering() {
		return nil, query.ErrMissingOrderBy
	}
	fetch := func(ctx context.Context, limit, offset int) ([]domain.Product, error) {
		return f.Page(ctx, spec, limit, offset)
	}
	return query.EnumeratePages(ctx, fetch, pageSize)
}

func exportProduct(name string, price float64) domain.Product {
	category := domain.NewCategory("Tools", "tools")
	p := domain.NewProduct(category.ID, name, "SKU-"+name, price)
	p.Category = &category
	return p
}

func TestExport_WritesWorkbook(t *testing.T) {
	repo := &streamOnlyRepo{products: []domain.Product{
		exportProduct("Hammer", 12.50),
		exportProduct("Wrench", 9.99),
		exportProduct("Saw", 24.00),
	}}
	service := NewService(repo,
		WithExportDirectory(t.TempDir()),
		WithPageSize(2),
	)

	spec := query.NewSpecification[domain.Product]().AddOrderBy("name", false)
	result, err := service.Export(context.Background(), spec)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.RowCount != 3 {
		t.Fatalf("expected 3 rows, got %d", result.RowCount)
	}

	f, err := excelize.OpenFile(result.FilePath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][2] != "Name" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][2] != "Hammer" || rows[1][1] != "Tools" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestExport_RequiresOrdering(t *testing.T) {
	service := NewService(&streamOnlyRepo{}, WithExportDirectory(t.TempDir()))

	if _, err := service.Export(context.Background(), query.NewSpecification[domain.Product]()); err == nil {
		t.Fatal("expected error for missing ordering")
	}
}

func TestExport_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/exports"
	service := NewService(&streamOnlyRepo{}, WithExportDirectory(dir))

	spec := query.NewSpecification[domain.Product]().AddOrderBy("name", false)
	if _, err := service.Export(context.Background(), spec); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("export directory missing: %v", err)
	}
}
