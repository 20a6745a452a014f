package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range Tables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_AddsImportSourceColumn(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO corpus_imports (id, imported_at, glossary, topics, excerpts, source)
		VALUES ('a', '2026-01-01T00:00:00Z', 1, 2, 3, 'files')`)
	require.NoError(t, err)
}

func TestMigrate_CascadesSynonyms(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO glossary_entries (id, position, term) VALUES (1, 0, 'Dolo')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO glossary_synonyms (entry_id, position, synonym) VALUES (1, 0, 'dolus')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM glossary_entries`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM glossary_synonyms`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_RejectsBlankTerm(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO glossary_entries (position, term) VALUES (0, '  ')`)
	assert.Error(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "corpus.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
