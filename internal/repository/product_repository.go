package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmallet/catql/internal/catalogloader"
	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
)

// productRepository implements ProductRepository over pgx.
type productRepository struct {
	pool       *pgxpool.Pool
	categories CategoryRepository
}

// NewProductRepository creates a new product repository. The category
// repository backs include hydration when no request-scoped loader is
// available.
func NewProductRepository(pool *pgxpool.Pool, categories CategoryRepository) ProductRepository {
	return &productRepository{pool: pool, categories: categories}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	const sql = `INSERT INTO products
		(id, category_id, name, sku, description, price, stock_quantity, is_active, status, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	row := r.pool.QueryRow(ctx, sql,
		product.ID, product.CategoryID, product.Name, product.SKU, product.Description,
		product.Price, product.StockQuantity, product.IsActive, string(product.Status),
		int(product.Visibility), product.CreatedAt, product.UpdatedAt,
	)
	if err := row.Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (r *productRepository) CreateBatch(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const sql = `INSERT INTO products
		(id, category_id, name, sku, description, price, stock_quantity, is_active, status, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(sql,
			p.ID, p.CategoryID, p.Name, p.SKU, p.Description, p.Price,
			p.StockQuantity, p.IsActive, string(p.Status), int(p.Visibility),
			p.CreatedAt, p.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range products {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to insert product batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush product batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit product batch: %w", err)
	}
	return len(products), nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	sql := "SELECT " + productColumns + " " + productFrom + " WHERE product.id = $1 AND product.deleted_at IS NULL"

	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return domain.Product{}, err
	}
	if len(products) == 0 {
		return domain.Product{}, ErrNotFound
	}
	return products[0], nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	sql := "SELECT " + productColumns + " " + productFrom + " WHERE product.id = ANY($1) AND product.deleted_at IS NULL"

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	const sql = `UPDATE products SET
		category_id = $2, name = $3, sku = $4, description = $5, price = $6,
		stock_quantity = $7, is_active = $8, status = $9, visibility = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	row := r.pool.QueryRow(ctx, sql,
		product.ID, product.CategoryID, product.Name, product.SKU, product.Description,
		product.Price, product.StockQuantity, product.IsActive, string(product.Status),
		int(product.Visibility),
	)
	if err := row.Scan(&product.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// Delete soft-deletes: the row stays behind the ambient filter.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "UPDATE products SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, spec *query.Specification[domain.Product]) ([]domain.Product, error) {
	return r.Page(ctx, spec, 0, 0)
}

func (r *productRepository) Page(ctx context.Context, spec *query.Specification[domain.Product], limit, offset int) ([]domain.Product, error) {
	planned, err := planProductQuery(spec)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + productColumns + " " + productFrom
	if planned.where != "" {
		sql += " " + planned.where
	}
	if planned.order != "" {
		sql += " " + planned.order
	}
	if limit > 0 {
		sql += " LIMIT " + planned.writer.Bind(limit)
	}
	if offset > 0 {
		sql += " OFFSET " + planned.writer.Bind(offset)
	}

	rows, err := r.pool.Query(ctx, sql, planned.args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	return r.hydrateIncludes(ctx, spec, products)
}

func (r *productRepository) First(ctx context.Context, spec *query.Specification[domain.Product]) (domain.Product, error) {
	product, err := r.firstMatch(ctx, spec)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, ErrNotFound
	}
	return *product, nil
}

func (r *productRepository) FirstOrNil(ctx context.Context, spec *query.Specification[domain.Product]) (*domain.Product, error) {
	return r.firstMatch(ctx, spec)
}

func (r *productRepository) firstMatch(ctx context.Context, spec *query.Specification[domain.Product]) (*domain.Product, error) {
	planned, err := planProductQuery(spec)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + productColumns + " " + productFrom
	if planned.where != "" {
		sql += " " + planned.where
	}
	if planned.order != "" {
		sql += " " + planned.order
	}
	sql += " LIMIT " + planned.writer.Bind(1)

	rows, err := r.pool.Query(ctx, sql, planned.args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query first product: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	products, err = r.hydrateIncludes(ctx, spec, products)
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *productRepository) Count(ctx context.Context, spec *query.Specification[domain.Product]) (int64, error) {
	planned, err := planProductQuery(spec)
	if err != nil {
		return 0, err
	}

	sql := "SELECT COUNT(*) " + productFrom
	if planned.where != "" {
		sql += " " + planned.where
	}

	var count int64
	if err := r.pool.QueryRow(ctx, sql, planned.args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Stream enumerates matches lazily. Ordering is mandatory: without it the
// pages LIMIT/OFFSET walks over are not deterministic.
func (r *productRepository) Stream(ctx context.Context, spec *query.Specification[domain.Product], pageSize int) (iter.Seq2[domain.Product, error], error) {
	if !spec.HasOrdering() {
		return nil, query.ErrMissingOrderBy
	}

	fetch := func(ctx context.Context, limit, offset int) ([]domain.Product, error) {
		return r.Page(ctx, spec, limit, offset)
	}
	return query.EnumeratePages(ctx, fetch, pageSize)
}

// hydrateIncludes populates requested navigation properties. Category
// lookups go through the request-scoped dataloader when one is attached,
// falling back to a direct batch query otherwise.
func (r *productRepository) hydrateIncludes(ctx context.Context, spec *query.Specification[domain.Product], products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 || !includesCategory(spec.Includes()) {
		return products, nil
	}

	if loader := catalogloader.FromContext(ctx); loader != nil {
		for i := range products {
			category, ok, err := loader.Load(ctx, products[i].CategoryID)
			if err != nil {
				return nil, fmt.Errorf("failed to load category %s: %w", products[i].CategoryID, err)
			}
			if ok {
				c := category
				products[i].Category = &c
			}
		}
		return products, nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	seen := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.CategoryID]; dup {
			continue
		}
		seen[p.CategoryID] = struct{}{}
		ids = append(ids, p.CategoryID)
	}

	categories, err := r.categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for i := range products {
		if c, ok := byID[products[i].CategoryID]; ok {
			category := c
			products[i].Category = &category
		}
	}
	return products, nil
}

func includesCategory(includes []string) bool {
	for _, include := range includes {
		if include == "Category" {
			return true
		}
	}
	return false
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		var (
			p           domain.Product
			description pgtype.Text
			status      string
			visibility  int
		)
		if err := rows.Scan(
			&p.ID, &p.CategoryID, &p.Name, &p.SKU, &description,
			&p.Price, &p.StockQuantity, &p.IsActive, &status, &visibility,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if description.Valid {
			d := description.String
			p.Description = &d
		}
		p.Status = domain.Status(status)
		p.Visibility = domain.Visibility(visibility)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}
