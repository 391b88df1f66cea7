// Package geo resolves free-text addresses to coordinates through an external
// forward-geocoding API.
package geo

import (
	"context"

	"github.com/avoronin/placekeeper/internal/server/models"
)

// Resolver turns an address into coordinates. Implementations return
// common.ErrorNotFound when the address does not resolve and
// common.ErrorUnavailable on transport or upstream failures.
type Resolver interface {
	Resolve(ctx context.Context, address string) (models.Coordinates, error)
}
