package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/gantry/internal/db"
)

// FailOnNthExecUoW wraps the real unit of work and makes the FailOn-th write
// inside the transaction return Err, so a multi-activity date change can be
// broken half way. Writes are numbered from 1; reads are never failed.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyTx{DBTX: tx, u: u})
	})
}

type faultyTx struct {
	db.DBTX
	u      *FailOnNthExecUoW
	writes atomic.Int32
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.u.FailOn {
		return nil, f.u.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
