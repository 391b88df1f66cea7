// Package repomanager builds repositories over a shared DBTX handle, so the
// same repository code runs standalone or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avoronin/placekeeper/internal/dbx"
	"github.com/avoronin/placekeeper/internal/server/repositories/ownership"
	"github.com/avoronin/placekeeper/internal/server/repositories/places"
	"github.com/avoronin/placekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Places(db dbx.DBTX) places.Repository
	Ownership(db dbx.DBTX) ownership.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
