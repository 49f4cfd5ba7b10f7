package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulearn-api/internal/models"
)

// CategoryRepository manages course categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name, active FROM categories ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListActive returns categories flagged active.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name, active FROM categories WHERE active = TRUE ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	return categories, nil
}

// FindByID returns the category with the given id.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, `SELECT id, name, active FROM categories WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.QueryRowxContext(ctx, `INSERT INTO categories (name, active) VALUES ($1, $2) RETURNING id`,
		category.Name, category.Active).Scan(&category.ID); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update overwrites the category name and flag.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if _, err := r.db.NamedExecContext(ctx, `UPDATE categories SET name = :name, active = :active WHERE id = :id`, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// UpdateActive toggles the active flag.
func (r *CategoryRepository) UpdateActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE categories SET active = $2 WHERE id = $1`, id, active); err != nil {
		return fmt.Errorf("update category status: %w", err)
	}
	return nil
}

// Delete removes the category. A missing id is not an error.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
