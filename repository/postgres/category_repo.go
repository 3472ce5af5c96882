package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed CategoryRepository. The
// categories table carries UNIQUE (name, created_by).
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) FindByName(ctx context.Context, name, createdBy string) (*domain.Category, error) {
	const query = `
	SELECT id, name, created_by, created_at
	FROM categories
	WHERE name = $1 AND created_by = $2
	`
	return scanCategory(r.pool.QueryRow(ctx, query, name, createdBy))
}

func (r *categoryRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
	SELECT id, name, created_by, created_at
	FROM categories
	WHERE id = ANY($1)
	`
	return r.list(ctx, query, ids)
}

func (r *categoryRepository) ListByOwner(ctx context.Context, createdBy string) ([]domain.Category, error) {
	const query = `
	SELECT id, name, created_by, created_at
	FROM categories
	WHERE created_by = $1
	ORDER BY name ASC
	`
	return r.list(ctx, query, createdBy)
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO categories (id, name, created_by)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query, category.ID, category.Name, category.CreatedBy).Scan(&category.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func scanCategory(row scanner) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}
