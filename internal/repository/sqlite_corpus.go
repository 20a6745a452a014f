package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/db"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/google/uuid"
)

// SQLiteCorpusRepo implements CorpusRepo. Replace and Load run inside the
// unit of work; LatestImport reads conn directly.
type SQLiteCorpusRepo struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

func NewSQLiteCorpusRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteCorpusRepo {
	return &SQLiteCorpusRepo{conn: conn, uow: uow}
}

var _ CorpusRepo = (*SQLiteCorpusRepo)(nil)

func (r *SQLiteCorpusRepo) Replace(ctx context.Context, repo *corpus.Repository, source string) (*ImportRecord, error) {
	rec := &ImportRecord{
		ID:         uuid.New().String(),
		ImportedAt: nowUTC(),
		Source:     source,
		Stats:      repo.Stats(),
	}
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, stmt := range []string{
			`DELETE FROM glossary_entries`,
			`DELETE FROM topics`,
			`DELETE FROM excerpts`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clearing snapshot: %w", err)
			}
		}
		if err := insertGlossary(ctx, tx, repo.Glossary()); err != nil {
			return err
		}
		if err := insertTopics(ctx, tx, repo.Topics()); err != nil {
			return err
		}
		if err := insertExcerpts(ctx, tx, repo.Excerpts()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO corpus_imports
			(id, imported_at, glossary, topics, excerpts, source) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.ImportedAt.Format(timeLayout),
			rec.Stats.Glossary, rec.Stats.Topics, rec.Stats.Excerpts, source)
		if err != nil {
			return fmt.Errorf("recording import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func insertGlossary(ctx context.Context, tx db.DBTX, entries []domain.GlossaryEntry) error {
	for i, e := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO glossary_entries (position, term, definition) VALUES (?, ?, ?)`,
			i, e.Term, e.Definition)
		if err != nil {
			return fmt.Errorf("inserting glossary entry %q: %w", e.Term, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("glossary entry id: %w", err)
		}
		for j, syn := range e.Synonyms {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO glossary_synonyms (entry_id, position, synonym) VALUES (?, ?, ?)`,
				id, j, syn); err != nil {
				return fmt.Errorf("inserting synonym %q of %q: %w", syn, e.Term, err)
			}
		}
	}
	return nil
}

func insertTopics(ctx context.Context, tx db.DBTX, entries []domain.TopicEntry) error {
	for i, t := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO topics (position, title, page) VALUES (?, ?, ?)`,
			i, t.Title, t.Page)
		if err != nil {
			return fmt.Errorf("inserting topic %q: %w", t.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("topic id: %w", err)
		}
		for j, kw := range t.Keywords {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO topic_keywords (topic_id, position, keyword) VALUES (?, ?, ?)`,
				id, j, kw); err != nil {
				return fmt.Errorf("inserting keyword %q of %q: %w", kw, t.Title, err)
			}
		}
	}
	return nil
}

func insertExcerpts(ctx context.Context, tx db.DBTX, entries []domain.ExcerptEntry) error {
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO excerpts (position, citation, source_text, translated_text) VALUES (?, ?, ?, ?)`,
			i, e.Citation, e.SourceText, e.TranslatedText); err != nil {
			return fmt.Errorf("inserting excerpt %q: %w", e.Citation, err)
		}
	}
	return nil
}

// Load reads all three tables inside one transaction so a concurrent
// Replace is seen either entirely or not at all.
func (r *SQLiteCorpusRepo) Load(ctx context.Context) (*corpus.Repository, error) {
	var (
		glossary []domain.GlossaryEntry
		topics   []domain.TopicEntry
		excerpts []domain.ExcerptEntry
	)
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := latestImport(ctx, tx); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrEmptySnapshot
			}
			return err
		}
		var err error
		if glossary, err = loadGlossary(ctx, tx); err != nil {
			return err
		}
		if topics, err = loadTopics(ctx, tx); err != nil {
			return err
		}
		excerpts, err = loadExcerpts(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return corpus.New(glossary, topics, excerpts)
}

func loadGlossary(ctx context.Context, q db.DBTX) ([]domain.GlossaryEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT g.id, g.term, g.definition, s.synonym
		FROM glossary_entries g
		LEFT JOIN glossary_synonyms s ON s.entry_id = g.id
		ORDER BY g.position, s.position`)
	if err != nil {
		return nil, fmt.Errorf("querying glossary: %w", err)
	}
	defer rows.Close()

	var (
		out    []domain.GlossaryEntry
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			id      int64
			e       domain.GlossaryEntry
			synonym sql.NullString
		)
		if err := rows.Scan(&id, &e.Term, &e.Definition, &synonym); err != nil {
			return nil, fmt.Errorf("scanning glossary: %w", err)
		}
		if id != lastID {
			out = append(out, e)
			lastID = id
		}
		if synonym.Valid {
			last := &out[len(out)-1]
			last.Synonyms = append(last.Synonyms, synonym.String)
		}
	}
	return out, rows.Err()
}

func loadTopics(ctx context.Context, q db.DBTX) ([]domain.TopicEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT t.id, t.title, t.page, k.keyword
		FROM topics t
		LEFT JOIN topic_keywords k ON k.topic_id = t.id
		ORDER BY t.position, k.position`)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var (
		out    []domain.TopicEntry
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			id      int64
			t       domain.TopicEntry
			keyword sql.NullString
		)
		if err := rows.Scan(&id, &t.Title, &t.Page, &keyword); err != nil {
			return nil, fmt.Errorf("scanning topics: %w", err)
		}
		if id != lastID {
			out = append(out, t)
			lastID = id
		}
		if keyword.Valid {
			last := &out[len(out)-1]
			last.Keywords = append(last.Keywords, keyword.String)
		}
	}
	return out, rows.Err()
}

func loadExcerpts(ctx context.Context, q db.DBTX) ([]domain.ExcerptEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT citation, source_text, translated_text FROM excerpts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying excerpts: %w", err)
	}
	defer rows.Close()

	var out []domain.ExcerptEntry
	for rows.Next() {
		var e domain.ExcerptEntry
		if err := rows.Scan(&e.Citation, &e.SourceText, &e.TranslatedText); err != nil {
			return nil, fmt.Errorf("scanning excerpts: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteCorpusRepo) LatestImport(ctx context.Context) (*ImportRecord, error) {
	return latestImport(ctx, r.conn)
}

func latestImport(ctx context.Context, q db.DBTX) (*ImportRecord, error) {
	row := q.QueryRowContext(ctx, `SELECT id, imported_at, source, glossary, topics, excerpts
		FROM corpus_imports ORDER BY rowid DESC LIMIT 1`)

	var (
		rec    ImportRecord
		at     string
		source sql.NullString
	)
	err := row.Scan(&rec.ID, &at, &source, &rec.Stats.Glossary, &rec.Stats.Topics, &rec.Stats.Excerpts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("corpus import: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning corpus import: %w", err)
	}
	rec.Source = stringOrEmpty(source)
	if rec.ImportedAt, err = time.Parse(timeLayout, at); err != nil {
		return nil, fmt.Errorf("parsing import time %q: %w", at, err)
	}
	return &rec, nil
}
