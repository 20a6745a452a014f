package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/ulpiano/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func termAt(t *testing.T, database *sql.DB, position int) (string, bool) {
	t.Helper()
	var term string
	err := database.QueryRow(`SELECT term FROM glossary_entries WHERE position = ?`, position).Scan(&term)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return term, true
}

func insertTerm(ctx context.Context, tx db.DBTX, position int, term string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO glossary_entries (position, term) VALUES (?, ?)`, position, term)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTerm(ctx, tx, 0, "Dolo")
	})
	require.NoError(t, err)

	term, found := termAt(t, database, 0)
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "Dolo", term)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTerm(ctx, tx, 1, "Hurto"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := termAt(t, database, 1)
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTerm(ctx, tx, 2, "Usucapión")
			panic("boom")
		})
	})

	_, found := termAt(t, database, 2)
	assert.False(t, found, "row should not exist after panic rollback")
}
