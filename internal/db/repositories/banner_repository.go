package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// BannerRepository handles banner database operations
type BannerRepository struct {
	db *sql.DB
}

// NewBannerRepository creates a new BannerRepository
func NewBannerRepository(db *sql.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// Create inserts a new banner
func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	banner.ID = uuid.New().String()
	banner.CreatedAt = time.Now()

	query := `
		INSERT INTO banners (id, title, image_url, target_url, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		banner.ID,
		banner.Title,
		banner.ImageURL,
		banner.TargetURL,
		banner.Position,
		banner.CreatedAt,
	)
	return err
}

// GetByID retrieves a banner by ID
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*models.Banner, error) {
	query := `SELECT id, title, image_url, target_url, position, created_at FROM banners WHERE id = $1`

	banner := &models.Banner{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&banner.ID,
		&banner.Title,
		&banner.ImageURL,
		&banner.TargetURL,
		&banner.Position,
		&banner.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return banner, nil
}

// List retrieves all banners ordered by display position
func (r *BannerRepository) List(ctx context.Context, limit, offset int) ([]*models.Banner, error) {
	query := `
		SELECT id, title, image_url, target_url, position, created_at
		FROM banners
		ORDER BY position ASC, created_at DESC, seq DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banners := make([]*models.Banner, 0)
	for rows.Next() {
		banner := &models.Banner{}
		err := rows.Scan(
			&banner.ID,
			&banner.Title,
			&banner.ImageURL,
			&banner.TargetURL,
			&banner.Position,
			&banner.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		banners = append(banners, banner)
	}

	return banners, rows.Err()
}

// Update overwrites a banner's fields. Returns ErrNotFound if the banner does
// not exist.
func (r *BannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	query := `UPDATE banners SET title = $2, image_url = $3, target_url = $4, position = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		banner.ID,
		banner.Title,
		banner.ImageURL,
		banner.TargetURL,
		banner.Position,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a banner. Returns ErrNotFound if the banner does not exist.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
