// payment_repository.go implements PaymentRepository over sqlx, covering
// verified payment records and the replay-safe insert used by the gateway
// callback handler.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateIfAbsent inserts a payment record unless one with the same gateway
// payment id already exists. Returns inserted=false on a replay; the existing
// row is left untouched.
func (r *PaymentRepository) CreateIfAbsent(ctx context.Context, payment *models.Payment) (inserted bool, err error) {
	payment.ID = uuid.New().String()
	payment.CreatedAt = time.Now()

	query := `
		INSERT INTO payments (id, vendor_id, gateway_order_id, gateway_payment_id, amount_minor, currency, plan, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (gateway_payment_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.VendorID,
		payment.GatewayOrderID,
		payment.GatewayPaymentID,
		payment.AmountMinor,
		payment.Currency,
		payment.Plan,
		payment.Status,
		payment.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create payment: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByGatewayPaymentID retrieves a payment by its gateway payment id
func (r *PaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	query := `
		SELECT id, vendor_id, gateway_order_id, gateway_payment_id, amount_minor, currency, plan, status, created_at
		FROM payments
		WHERE gateway_payment_id = $1
	`

	var payment models.Payment
	err := r.db.GetContext(ctx, &payment, query, gatewayPaymentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// List retrieves payments, newest first. When vendorID is non-empty only that
// vendor's payments are returned.
func (r *PaymentRepository) List(ctx context.Context, vendorID string, limit, offset int) ([]*models.Payment, error) {
	query := `
		SELECT id, vendor_id, gateway_order_id, gateway_payment_id, amount_minor, currency, plan, status, created_at
		FROM payments
	`
	args := []interface{}{limit, offset}
	if vendorID != "" {
		query += ` WHERE vendor_id = $3`
		args = append(args, vendorID)
	}
	query += ` ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`

	payments := make([]*models.Payment, 0)
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// SumAmount returns the total captured amount in minor units, for dashboard
// stats
func (r *PaymentRepository) SumAmount(ctx context.Context) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_minor), 0) FROM payments`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// Count returns the total number of payments
func (r *PaymentRepository) Count(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM payments`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, err
	}
	return total, nil
}
