// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that can own places. PlaceIDs mirrors the owner side of
// the ownership link: it must always equal the set of places whose OwnerID is
// this user. Only the ownership repository mutates it.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	ImagePath    string
	PlaceIDs     []string
	CreatedAt    time.Time
}
