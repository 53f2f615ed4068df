package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// CertificateRepository handles certificate database operations
type CertificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *sql.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create inserts a new certificate
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	cert.ID = uuid.New().String()
	cert.CreatedAt = time.Now()

	query := `
		INSERT INTO certificates (id, vendor_id, title, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		cert.ID,
		cert.VendorID,
		cert.Title,
		cert.FileURL,
		cert.CreatedAt,
	)
	return err
}

// GetByID retrieves a certificate by ID
func (r *CertificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := `SELECT id, vendor_id, title, file_url, created_at FROM certificates WHERE id = $1`

	cert := &models.Certificate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cert.ID,
		&cert.VendorID,
		&cert.Title,
		&cert.FileURL,
		&cert.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// ListByVendor retrieves a vendor's certificates, newest first
func (r *CertificateRepository) ListByVendor(ctx context.Context, vendorID string) ([]*models.Certificate, error) {
	query := `
		SELECT id, vendor_id, title, file_url, created_at
		FROM certificates
		WHERE vendor_id = $1
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := make([]*models.Certificate, 0)
	for rows.Next() {
		cert := &models.Certificate{}
		err := rows.Scan(
			&cert.ID,
			&cert.VendorID,
			&cert.Title,
			&cert.FileURL,
			&cert.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	return certs, rows.Err()
}

// Update overwrites a certificate's fields. Returns ErrNotFound if the
// certificate does not exist.
func (r *CertificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	query := `UPDATE certificates SET title = $2, file_url = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, cert.ID, cert.Title, cert.FileURL)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a certificate. Returns ErrNotFound if the certificate does
// not exist.
func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
