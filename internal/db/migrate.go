package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Tables lists the corpus tables in dependency order.
var Tables = []string{
	"glossary_entries",
	"glossary_synonyms",
	"topics",
	"topic_keywords",
	"excerpts",
	"corpus_imports",
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS glossary_entries (
		id         INTEGER PRIMARY KEY,
		position   INTEGER NOT NULL UNIQUE,
		term       TEXT NOT NULL CHECK(length(trim(term)) > 0),
		definition TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS glossary_synonyms (
		entry_id INTEGER NOT NULL REFERENCES glossary_entries(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		synonym  TEXT NOT NULL,
		PRIMARY KEY (entry_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS topics (
		id       INTEGER PRIMARY KEY,
		position INTEGER NOT NULL UNIQUE,
		title    TEXT NOT NULL CHECK(length(trim(title)) > 0),
		page     INTEGER NOT NULL DEFAULT 0 CHECK(page >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS topic_keywords (
		topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		keyword  TEXT NOT NULL,
		PRIMARY KEY (topic_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS excerpts (
		id              INTEGER PRIMARY KEY,
		position        INTEGER NOT NULL UNIQUE,
		citation        TEXT NOT NULL DEFAULT '',
		source_text     TEXT NOT NULL DEFAULT '',
		translated_text TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS corpus_imports (
		id          TEXT PRIMARY KEY,
		imported_at TEXT NOT NULL,
		glossary    INTEGER NOT NULL,
		topics      INTEGER NOT NULL,
		excerpts    INTEGER NOT NULL
	)`,

	`ALTER TABLE corpus_imports ADD COLUMN source TEXT NOT NULL DEFAULT ''`,

	`CREATE INDEX IF NOT EXISTS idx_excerpts_citation ON excerpts(citation)`,
	`CREATE INDEX IF NOT EXISTS idx_corpus_imports_at ON corpus_imports(imported_at)`,
}
