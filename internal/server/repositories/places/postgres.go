package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/dbx"
	"github.com/avoronin/placekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {

	query :=
		`INSERT INTO places (title, description, address, latitude, longitude, image_path, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		place.Title, place.Description, place.Address,
		place.Location.Latitude, place.Location.Longitude,
		place.ImagePath, place.OwnerID).Scan(&place.ID, &place.CreatedAt, &place.UpdatedAt)

	if err != nil {
		return nil, wrapDBError(err)
	}

	return place, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	query :=
		`SELECT id, title, description, address, latitude, longitude, image_path, owner_id, created_at, updated_at
		 FROM places
		 WHERE id = $1
		 `

	place := &models.Place{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Latitude, &place.Location.Longitude,
		&place.ImagePath, &place.OwnerID, &place.CreatedAt, &place.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapDBError(err)
	}

	return place, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Place, error) {
	query :=
		`SELECT id, title, description, address, latitude, longitude, image_path, owner_id, created_at, updated_at
		 FROM places
		 WHERE owner_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var result []*models.Place
	for rows.Next() {
		place := &models.Place{}
		if err := rows.Scan(
			&place.ID, &place.Title, &place.Description, &place.Address,
			&place.Location.Latitude, &place.Location.Longitude,
			&place.ImagePath, &place.OwnerID, &place.CreatedAt, &place.UpdatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		result = append(result, place)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return result, nil
}

// Update persists the mutable fields (title, description). Owner and location
// never change after creation.
func (r *PostgresRepository) Update(ctx context.Context, place *models.Place) (*models.Place, error) {
	query :=
		`UPDATE places
		 SET title = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, place.ID, place.Title, place.Description).Scan(&place.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapDBError(err)
	}

	return place, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM places WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapDBError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func wrapDBError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("db timeout: %w", common.ErrorUnavailable)
	}
	return fmt.Errorf("db error: %w", err)
}
