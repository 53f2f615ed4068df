package models

import "time"

// Payment records a verified subscription payment. GatewayPaymentID carries a
// unique constraint so a replayed callback can never produce a second row.
type Payment struct {
	ID               string    `json:"id" db:"id"`
	VendorID         string    `json:"vendor_id" db:"vendor_id"`
	GatewayOrderID   string    `json:"gateway_order_id" db:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id" db:"gateway_payment_id"`
	AmountMinor      int64     `json:"amount_minor" db:"amount_minor"`
	Currency         string    `json:"currency" db:"currency"`
	Plan             string    `json:"plan" db:"plan"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
