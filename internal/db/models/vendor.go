// vendor.go defines the Vendor model, the registration status lifecycle, and
// subscription tiers.
package models

import "time"

// Vendor status values. The default for new registrations is pending;
// operators may move a vendor between any two states, including re-setting
// the current one.
const (
	VendorStatusPending  = "pending"
	VendorStatusApproved = "approved"
	VendorStatusRejected = "rejected"
)

// Subscription tiers. New vendors start on the free tier; paid tiers are
// granted when a verified payment callback lands.
const (
	TierFree   = "free"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Vendor represents a marketplace vendor account
type Vendor struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	SubscriptionTier string    `json:"subscription_tier"`
	MediaURLs        URLList   `json:"media_urls"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsValidVendorStatus reports whether s is one of the known status values
func IsValidVendorStatus(s string) bool {
	switch s {
	case VendorStatusPending, VendorStatusApproved, VendorStatusRejected:
		return true
	}
	return false
}

// IsValidTier reports whether t is one of the known subscription tiers
func IsValidTier(t string) bool {
	switch t {
	case TierFree, TierSilver, TierGold:
		return true
	}
	return false
}

// IsApproved returns true if the vendor may log in and appear on the storefront
func (v *Vendor) IsApproved() bool {
	return v.Status == VendorStatusApproved
}
