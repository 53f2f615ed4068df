package models

import "time"

// Enquiry represents a contact message from a storefront visitor. VendorID is
// nil for general enquiries and set when the message targets a specific vendor.
type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	VendorID  *string   `json:"vendor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
