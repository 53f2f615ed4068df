package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// PostRepository handles feed post database operations
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()

	query := `
		INSERT INTO posts (id, vendor_id, body, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.VendorID,
		post.Body,
		post.ImageURL,
		post.CreatedAt,
	)
	return err
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT id, vendor_id, body, image_url, created_at FROM posts WHERE id = $1`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.VendorID,
		&post.Body,
		&post.ImageURL,
		&post.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves posts, newest first. When vendorID is non-empty only that
// vendor's posts are returned.
func (r *PostRepository) List(ctx context.Context, vendorID string, limit, offset int) ([]*models.Post, error) {
	query := `SELECT id, vendor_id, body, image_url, created_at FROM posts`
	args := []interface{}{limit, offset}
	if vendorID != "" {
		query += ` WHERE vendor_id = $3`
		args = append(args, vendorID)
	}
	query += ` ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post := &models.Post{}
		err := rows.Scan(
			&post.ID,
			&post.VendorID,
			&post.Body,
			&post.ImageURL,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// Delete removes a post. Returns ErrNotFound if the post does not exist.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
