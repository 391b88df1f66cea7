package repomanager

import (
	"context"
	"database/sql"

	"github.com/avoronin/placekeeper/internal/dbx"
	"github.com/avoronin/placekeeper/internal/server/migrations"
	"github.com/avoronin/placekeeper/internal/server/repositories/ownership"
	"github.com/avoronin/placekeeper/internal/server/repositories/places"
	"github.com/avoronin/placekeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Places(db dbx.DBTX) places.Repository {
	return places.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ownership(db dbx.DBTX) ownership.Repository {
	return ownership.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)
