package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/db"
	"github.com/alexanderramin/ulpiano/internal/repository"
)

// NewTestDB opens a migrated in-memory snapshot database that is closed
// when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewSnapshotRepo returns a corpus snapshot repository over database. When
// seed is non-nil it is imported first under the source "seed".
func NewSnapshotRepo(t testing.TB, database *sql.DB, seed *corpus.Repository) *repository.SQLiteCorpusRepo {
	t.Helper()
	repo := repository.NewSQLiteCorpusRepo(database, db.NewSQLiteUnitOfWork(database))
	if seed != nil {
		if _, err := repo.Replace(t.Context(), seed, "seed"); err != nil {
			t.Fatalf("seeding snapshot: %v", err)
		}
	}
	return repo
}
