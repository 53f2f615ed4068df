// status_audit_repository.go implements StatusAuditRepository over sqlx,
// recording every vendor status transition with the operator who made it.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// StatusAuditRepository handles vendor status audit database operations
type StatusAuditRepository struct {
	db *sqlx.DB
}

// NewStatusAuditRepository creates a new status audit repository
func NewStatusAuditRepository(db *sqlx.DB) *StatusAuditRepository {
	return &StatusAuditRepository{db: db}
}

// Record inserts an audit entry for a status transition
func (r *StatusAuditRepository) Record(ctx context.Context, entry *models.VendorStatusAudit) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO vendor_status_audit (id, vendor_id, from_status, to_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.VendorID,
		entry.FromStatus,
		entry.ToStatus,
		entry.ActorID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record status transition: %w", err)
	}
	return nil
}

// ListByVendor retrieves a vendor's status history, newest first
func (r *StatusAuditRepository) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*models.VendorStatusAudit, error) {
	query := `
		SELECT id, vendor_id, from_status, to_status, actor_id, created_at
		FROM vendor_status_audit
		WHERE vendor_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3
	`

	entries := make([]*models.VendorStatusAudit, 0)
	if err := r.db.SelectContext(ctx, &entries, query, vendorID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list status audit: %w", err)
	}
	return entries, nil
}
