package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/avoronin/cardbox/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// CategoryRepository implements category persistence against a
// PostgreSQL database. Name uniqueness is enforced by a database
// constraint and surfaced as models.ErrCategoryExists.
type CategoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewCategoryRepository creates a CategoryRepository using the provided *sqlx.DB.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetCategories fetches all categories ordered by name.
func (r *CategoryRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.SelectContext(ctx, &categories, `
		SELECT id, name, created_at FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a single category by id.
// Returns models.ErrCategoryNotFound when it does not exist.
func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.DB.GetContext(ctx, &category, `
		SELECT id, name, created_at FROM categories WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &category, nil
}

// CreateCategory inserts a new category and fills in its generated id.
// A duplicate name yields models.ErrCategoryExists.
func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	err := r.DB.QueryRowxContext(ctx, `
		INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at
	`, category.Name).Scan(&category.ID, &category.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrCategoryExists
	}
	if err != nil {
		return fmt.Errorf("create category %q: %w", category.Name, err)
	}
	return nil
}

// RenameCategory changes a category's name, keeping uniqueness.
func (r *CategoryRepository) RenameCategory(ctx context.Context, id int64, name string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE categories SET name = $1 WHERE id = $2
	`, name, id)
	if isUniqueViolation(err) {
		return models.ErrCategoryExists
	}
	if err != nil {
		return fmt.Errorf("rename category %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename category %d: rows affected: %w", id, err)
	}
	if rows == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category; its cards go with it via the
// foreign-key cascade.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM categories WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %d: rows affected: %w", id, err)
	}
	if rows == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
