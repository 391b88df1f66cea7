// Package ownership maintains the owner side of the account–place link: the
// place_ids collection on each user row. It is the only writer of that
// column, and its operations are only ever invoked inside a transaction
// opened by the place lifecycle service, so the two collections move
// together or not at all.
package ownership

import "context"

type Repository interface {
	// Link appends placeID to the owner's collection. Returns
	// common.ErrorNotFound when the owner row does not resolve.
	Link(ctx context.Context, ownerID, placeID string) error

	// Unlink removes placeID from the owner's collection. Removing an id
	// that is already absent is a no-op, so deletes are safe to retry.
	Unlink(ctx context.Context, ownerID, placeID string) error
}
