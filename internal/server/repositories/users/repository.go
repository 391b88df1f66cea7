// Package users persists accounts. The place_ids column is owned by the
// ownership repository and never mutated here.
package users

import (
	"context"

	"github.com/avoronin/placekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
}
