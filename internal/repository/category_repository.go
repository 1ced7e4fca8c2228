package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmallet/catql/internal/domain"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = "id, name, slug, created_at"

func (r *categoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	const sql = `INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	row := r.pool.QueryRow(ctx, sql, category.ID, category.Name, category.Slug, category.CreatedAt)
	if err := row.Scan(&category.CreatedAt); err != nil {
		return domain.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	sql := "SELECT " + categoryColumns + " FROM categories WHERE id = $1"

	var category domain.Category
	err := r.pool.QueryRow(ctx, sql, id).Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}

	sql := "SELECT " + categoryColumns + " FROM categories WHERE id = ANY($1)"

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by IDs: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (domain.Category, error) {
	sql := "SELECT " + categoryColumns + " FROM categories WHERE slug = $1"

	var category domain.Category
	err := r.pool.QueryRow(ctx, sql, slug).Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	sql := "SELECT " + categoryColumns + " FROM categories ORDER BY name"

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}
	return categories, nil
}
