package models

import "time"

// Product represents a vendor's product listing. Prices are stored in minor
// currency units (paise for INR) to avoid floating point.
type Product struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceMinor  int64     `json:"price_minor"`
	ImageURL    string    `json:"image_url"`
	VideoURLs   URLList   `json:"video_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
