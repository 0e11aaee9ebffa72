package repomanager

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/accounts"
)

// RepositoryManager hands out repositories bound to a store and runs units
// of work against it.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	// WithinTx runs fn with repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, accounts accounts.Repository) error) error
	Close() error
}
