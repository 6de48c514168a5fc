package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/db"
)

const stamp = "2025-01-01T00:00:00Z"

func openWithProject(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'UOW01', 'Tx', ?, ?)`, stamp, stamp)
	require.NoError(t, err)
	return conn, db.NewSQLiteUnitOfWork(conn)
}

func insertActivity(ctx context.Context, tx db.DBTX, id, start string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO activities (id, project_id, name, start_date, created_at, updated_at)
		VALUES (?, 'p1', ?, ?, ?, ?)`, id, id, start, stamp, stamp)
	return err
}

func countActivities(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&n))
	return n
}

func TestWithinTx_CommitsAllWrites(t *testing.T) {
	conn, uow := openWithProject(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertActivity(ctx, tx, "a1", "2025-01-01"); err != nil {
			return err
		}
		return insertActivity(ctx, tx, "a2", "2025-01-05")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countActivities(t, conn))
}

func TestWithinTx_ErrorRollsBackEarlierWrites(t *testing.T) {
	conn, uow := openWithProject(t)
	boom := errors.New("second write failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertActivity(ctx, tx, "a1", "2025-01-01"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, countActivities(t, conn))
}

func TestWithinTx_ConstraintViolationRollsBack(t *testing.T) {
	conn, uow := openWithProject(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertActivity(ctx, tx, "a1", "2025-01-01"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE activities SET end_date = '2024-12-01' WHERE id = 'a1'`)
		return err
	})
	require.Error(t, err, "end before start violates the CHECK")
	assert.Zero(t, countActivities(t, conn))
}

func TestWithinTx_PanicRollsBack(t *testing.T) {
	conn, uow := openWithProject(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertActivity(ctx, tx, "a1", "2025-01-01")
			panic("boom")
		})
	})
	assert.Zero(t, countActivities(t, conn))
}

func TestOpenDB_ForeignKeysCascade(t *testing.T) {
	conn, uow := openWithProject(t)
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertActivity(ctx, tx, "a1", "2025-01-01")
	}))

	_, err := conn.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)
	assert.Zero(t, countActivities(t, conn))
}

func TestOpenDB_EmptyPath(t *testing.T) {
	_, err := db.OpenDB("")
	require.Error(t, err)
}
