// product_repository.go implements ProductRepository for vendor product
// listings and their video galleries.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// ProductFilter narrows List results. Zero values mean "no filter".
type ProductFilter struct {
	VendorID   string
	CategoryID string
	Query      string
}

// ProductRepository handles product database operations
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, vendor_id, category_id, name, description, price_minor, image_url, video_urls, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID,
		&p.VendorID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.PriceMinor,
		&p.ImageURL,
		&p.VideoURLs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New().String()
	if product.VideoURLs == nil {
		product.VideoURLs = models.URLList{}
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.VendorID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceMinor,
		product.ImageURL,
		product.VideoURLs,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List retrieves products matching the filter, newest first
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}

	if filter.VendorID != "" {
		args = append(args, filter.VendorID)
		query += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// Update overwrites a product's mutable fields. Returns ErrNotFound if the
// product does not exist.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	if product.VideoURLs == nil {
		product.VideoURLs = models.URLList{}
	}

	query := `
		UPDATE products
		SET category_id = $2, name = $3, description = $4, price_minor = $5, image_url = $6, video_urls = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceMinor,
		product.ImageURL,
		product.VideoURLs,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a product. Returns ErrNotFound if the product does not exist.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	return total, err
}
