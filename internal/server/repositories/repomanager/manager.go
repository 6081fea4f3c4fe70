package repomanager

import (
	"context"
	"database/sql"

	"github.com/rmaksimov/videotube/internal/dbx"
	"github.com/rmaksimov/videotube/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (either the shared
// *sql.DB or a transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
