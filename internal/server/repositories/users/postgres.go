package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/dbx"
	"github.com/avoronin/placekeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, password_hash, image_path)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.ImagePath).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, wrapDBError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password_hash, image_path, array_to_string(place_ids, ','), created_at
		 FROM users
		 WHERE id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password_hash, image_path, array_to_string(place_ids, ','), created_at
		 FROM users
		 WHERE email = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetAll lists accounts without their credential hashes.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, name, email, image_path, array_to_string(place_ids, ','), created_at
		 FROM users
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		var placeIDs string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.ImagePath, &placeIDs, &user.CreatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		user.PlaceIDs = splitIDs(placeIDs)
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return result, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var placeIDs string

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ImagePath, &placeIDs, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapDBError(err)
	}

	user.PlaceIDs = splitIDs(placeIDs)
	return user, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func wrapDBError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("db timeout: %w", common.ErrorUnavailable)
	}
	return fmt.Errorf("db error: %w", err)
}
