package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Link and Unlink are single in-place array updates. Concurrent calls for the
// same owner serialize on the row, so the collection cannot be corrupted by
// parallel requests.

func (r *PostgresRepository) Link(ctx context.Context, ownerID, placeID string) error {
	query :=
		`UPDATE users
		 SET place_ids = array_append(place_ids, $2)
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID, placeID)
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

func (r *PostgresRepository) Unlink(ctx context.Context, ownerID, placeID string) error {
	query :=
		`UPDATE users
		 SET place_ids = array_remove(place_ids, $2)
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID, placeID)
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
