package models

import "time"

// Coordinates is a geographic point resolved from a snap's address.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Snap is a geotagged photo post. Creator references the owning user and is
// immutable after creation.
type Snap struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImagePath   string      `json:"image"`
	Address     string      `json:"address"`
	Location    Coordinates `json:"location"`
	Creator     string      `json:"creator"`
	CreatedAt   time.Time   `json:"createdAt"`
}
