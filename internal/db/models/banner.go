package models

import "time"

// Banner represents a promotional banner on the storefront home page.
// Position controls display order, lowest first.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	TargetURL string    `json:"target_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
