package repomanager

import (
	"context"
	"database/sql"

	"github.com/snapshare/backend/internal/dbx"
	"github.com/snapshare/backend/internal/server/repositories/snaps"
	"github.com/snapshare/backend/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository inside and outside a transaction, and runs schema
// migrations at startup.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Snaps(db dbx.DBTX) snaps.Repository
}
