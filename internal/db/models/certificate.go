package models

import "time"

// Certificate represents a document a vendor uploads to back up their
// registration (trade license, tax certificate, and the like).
type Certificate struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendor_id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
