package models

import "time"

// Coordinates is a geocoded {latitude, longitude} pair derived from a place's
// address at creation time.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is a user-published location record. OwnerID is immutable after
// creation; only title and description may change.
type Place struct {
	ID          string
	Title       string
	Description string
	Address     string
	Location    Coordinates
	ImagePath   string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
