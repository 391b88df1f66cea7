// Package places persists place records.
package places

import (
	"context"

	"github.com/avoronin/placekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, place *models.Place) (*models.Place, error)
	GetByID(ctx context.Context, id string) (*models.Place, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Place, error)
	Update(ctx context.Context, place *models.Place) (*models.Place, error)
	Delete(ctx context.Context, id string) error
}
