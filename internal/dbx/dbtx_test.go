package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupDB opens a private in-memory sqlite database with an accounts-like
// table carrying two unique keys.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE accounts (
		handle TEXT NOT NULL UNIQUE,
		email  TEXT NOT NULL UNIQUE
	)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, handle, email string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO accounts(handle, email) VALUES (?, ?)`, handle, email)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return insert(ctx, tx, "bob", "bob@x.com")
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackWhenLaterStepFails(t *testing.T) {
	db := setupDB(t)
	signErr := errors.New("signing secret not configured")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "bob", "bob@x.com"))
		return signErr
	})
	require.ErrorIs(t, err, signErr)
	require.Equal(t, 0, countRows(t, db), "insert must not survive a failed unit of work")
}

func TestWithTx_UniqueViolationRollsBackWholeUnit(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, insert(context.Background(), db, "bob", "bob@x.com"))

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := insert(ctx, tx, "alice", "alice@x.com"); err != nil {
			return err
		}
		return insert(ctx, tx, "carol", "bob@x.com")
	})
	require.Error(t, err)
	require.Equal(t, 1, countRows(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "bob", "bob@x.com"))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
	require.False(t, called)
}
