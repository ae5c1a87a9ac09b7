package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes explicit transaction control for repositories
// whose workflow operations span multiple statements.
type TransactionManager interface {
	// Begin opens a new transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits the transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback aborts the transaction. Rolling back an already committed
	// transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
