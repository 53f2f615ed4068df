package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.ID = uuid.New().String()
	category.CreatedAt = time.Now()

	query := `
		INSERT INTO categories (id, name, image_url, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.ImageURL,
		category.CreatedAt,
	)
	return err
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT id, name, image_url, created_at FROM categories WHERE id = $1`

	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.ImageURL,
		&category.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// List retrieves all categories, newest first
func (r *CategoryRepository) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT id, name, image_url, created_at
		FROM categories
		ORDER BY created_at DESC, seq DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.ImageURL,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Update overwrites a category's fields. Returns ErrNotFound if the category
// does not exist.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = $2, image_url = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.ImageURL)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a category. Products referencing it keep existing with a
// NULL category. Returns ErrNotFound if the category does not exist.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
