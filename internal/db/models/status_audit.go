package models

import "time"

// VendorStatusAudit records a single status transition on a vendor, including
// the operator who performed it. Transitions are unrestricted, so the audit
// trail is the only way to reconstruct a vendor's review history.
type VendorStatusAudit struct {
	ID         string    `json:"id" db:"id"`
	VendorID   string    `json:"vendor_id" db:"vendor_id"`
	FromStatus string    `json:"from_status" db:"from_status"`
	ToStatus   string    `json:"to_status" db:"to_status"`
	ActorID    string    `json:"actor_id" db:"actor_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
