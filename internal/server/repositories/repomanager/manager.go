package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/calcledger/internal/dbx"
	"github.com/dmitrijs2005/calcledger/internal/server/repositories/calculations"
	"github.com/dmitrijs2005/calcledger/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Calculations(db dbx.DBTX) calculations.Repository
}
