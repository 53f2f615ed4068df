// vendor_repository.go implements VendorRepository, covering vendor accounts,
// storefront listing filters, status transitions, and subscription tiers.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// VendorFilter narrows List results. Zero values mean "no filter".
type VendorFilter struct {
	Status   string
	Category string
	Query    string // matches name or description, case-insensitive
}

// VendorRepository handles vendor database operations
type VendorRepository struct {
	db *sql.DB
}

// NewVendorRepository creates a new VendorRepository
func NewVendorRepository(db *sql.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

const vendorColumns = `id, name, email, password_hash, phone, address, category, description, status, subscription_tier, media_urls, created_at, updated_at`

func scanVendor(row interface{ Scan(...interface{}) error }) (*models.Vendor, error) {
	v := &models.Vendor{}
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&v.PasswordHash,
		&v.Phone,
		&v.Address,
		&v.Category,
		&v.Description,
		&v.Status,
		&v.SubscriptionTier,
		&v.MediaURLs,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create inserts a new vendor. New vendors start as pending on the free tier.
// Returns ErrDuplicate if the email is already registered.
func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = uuid.New().String()
	if vendor.Status == "" {
		vendor.Status = models.VendorStatusPending
	}
	if vendor.SubscriptionTier == "" {
		vendor.SubscriptionTier = models.TierFree
	}
	if vendor.MediaURLs == nil {
		vendor.MediaURLs = models.URLList{}
	}
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = time.Now()

	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		vendor.ID,
		vendor.Name,
		vendor.Email,
		vendor.PasswordHash,
		vendor.Phone,
		vendor.Address,
		vendor.Category,
		vendor.Description,
		vendor.Status,
		vendor.SubscriptionTier,
		vendor.MediaURLs,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves a vendor by ID
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	vendor, err := scanVendor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

// GetByEmail retrieves a vendor by email
func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE email = $1`

	vendor, err := scanVendor(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

// List retrieves vendors matching the filter, newest first. An empty result
// is not an error.
func (r *VendorRepository) List(ctx context.Context, filter VendorFilter, limit, offset int) ([]*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
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

	vendors := make([]*models.Vendor, 0)
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}

	return vendors, rows.Err()
}

// Update overwrites a vendor's mutable fields. Returns ErrNotFound if the
// vendor does not exist.
func (r *VendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	vendor.UpdatedAt = time.Now()
	if vendor.MediaURLs == nil {
		vendor.MediaURLs = models.URLList{}
	}

	query := `
		UPDATE vendors
		SET name = $2, phone = $3, address = $4, category = $5, description = $6, media_urls = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		vendor.ID,
		vendor.Name,
		vendor.Phone,
		vendor.Address,
		vendor.Category,
		vendor.Description,
		vendor.MediaURLs,
		vendor.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// UpdateStatus sets a vendor's status and returns the previous status so the
// caller can record the transition. Any status may replace any other, the
// same one included.
func (r *VendorRepository) UpdateStatus(ctx context.Context, id, status string) (fromStatus string, err error) {
	query := `SELECT status FROM vendors WHERE id = $1`
	err = r.db.QueryRowContext(ctx, query, id).Scan(&fromStatus)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	update := `UPDATE vendors SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, update, id, status, time.Now())
	if err != nil {
		return "", err
	}
	if err := requireRowsAffected(result); err != nil {
		return "", err
	}
	return fromStatus, nil
}

// UpdateSubscriptionTier sets a vendor's subscription tier after a verified
// payment. Returns ErrNotFound if the vendor does not exist.
func (r *VendorRepository) UpdateSubscriptionTier(ctx context.Context, id, tier string) error {
	query := `UPDATE vendors SET subscription_tier = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, tier, time.Now())
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a vendor (cascades to products, certificates, posts, payments).
// Returns ErrNotFound if the vendor does not exist.
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// CountByStatus returns vendor counts keyed by status, for dashboard stats
func (r *VendorRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM vendors GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// requireRowsAffected converts a zero-row mutation into ErrNotFound
func requireRowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
