package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// EnquiryRepository handles enquiry database operations
type EnquiryRepository struct {
	db *sql.DB
}

// NewEnquiryRepository creates a new EnquiryRepository
func NewEnquiryRepository(db *sql.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

// Create inserts a new enquiry
func (r *EnquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	enquiry.ID = uuid.New().String()
	enquiry.CreatedAt = time.Now()

	query := `
		INSERT INTO enquiries (id, name, email, phone, message, vendor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		enquiry.ID,
		enquiry.Name,
		enquiry.Email,
		enquiry.Phone,
		enquiry.Message,
		enquiry.VendorID,
		enquiry.CreatedAt,
	)
	return err
}

// List retrieves enquiries, newest first. When vendorID is non-empty only
// enquiries targeting that vendor are returned.
func (r *EnquiryRepository) List(ctx context.Context, vendorID string, limit, offset int) ([]*models.Enquiry, error) {
	query := `
		SELECT id, name, email, phone, message, vendor_id, created_at
		FROM enquiries
	`
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

	enquiries := make([]*models.Enquiry, 0)
	for rows.Next() {
		enquiry := &models.Enquiry{}
		err := rows.Scan(
			&enquiry.ID,
			&enquiry.Name,
			&enquiry.Email,
			&enquiry.Phone,
			&enquiry.Message,
			&enquiry.VendorID,
			&enquiry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		enquiries = append(enquiries, enquiry)
	}

	return enquiries, rows.Err()
}

// Delete removes an enquiry. Returns ErrNotFound if the enquiry does not exist.
func (r *EnquiryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Count returns the total number of enquiries
func (r *EnquiryRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enquiries`).Scan(&total)
	return total, err
}
