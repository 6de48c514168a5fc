package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories query through: the pool for plain reads and
// writes, or the *sql.Tx handed out by UnitOfWork when a schedule change
// spans several rows.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
