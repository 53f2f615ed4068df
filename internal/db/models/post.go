package models

import "time"

// Post represents an entry in the live vendor feed
type Post struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendor_id"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
