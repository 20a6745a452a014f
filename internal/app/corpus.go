package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/db"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/repository"
)

// CorpusService maintains the corpus snapshot and converts digest sources.
type CorpusService struct {
	paths corpus.Paths
}

func NewCorpusService(paths corpus.Paths) *CorpusService {
	return &CorpusService{paths: paths}
}

// ImportCorpus loads the corpus files and replaces the snapshot at dbPath with them.
func (s *CorpusService) ImportCorpus(ctx context.Context, dbPath string) (*ImportResult, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("no snapshot database configured")
	}
	repo, err := corpus.LoadFiles(s.paths)
	if err != nil {
		return nil, fmt.Errorf("loading corpus files: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus snapshot: %w", err)
	}
	defer database.Close()

	snapshots := repository.NewSQLiteCorpusRepo(database, db.NewSQLiteUnitOfWork(database))
	rec, err := snapshots.Replace(ctx, repo, s.describe())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("corpus imported",
		"import_id", rec.ID,
		"db", dbPath,
		"glossary", rec.Stats.Glossary,
		"topics", rec.Stats.Topics,
		"excerpts", rec.Stats.Excerpts,
	)
	return &ImportResult{Record: rec, DBPath: dbPath}, nil
}

func (s *CorpusService) LatestImport(ctx context.Context, dbPath string) (*repository.ImportRecord, error) {
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus snapshot: %w", err)
	}
	defer database.Close()
	return repository.NewSQLiteCorpusRepo(database, db.NewSQLiteUnitOfWork(database)).LatestImport(ctx)
}

// ConvertDigest parses a digest in text or HTML form and writes the excerpts
// as JSON. It returns the number of excerpts written.
func (s *CorpusService) ConvertDigest(ctx context.Context, inputPath, outputPath string) (int, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("reading digest: %w", err)
	}

	text := string(raw)
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".html", ".htm":
		text, err = corpus.ExtractHTMLText(bytes.NewReader(raw))
		if err != nil {
			return 0, fmt.Errorf("extracting digest text: %w", err)
		}
	}

	excerpts := corpus.ParseDigestText(text)
	if len(excerpts) == 0 {
		return 0, fmt.Errorf("no digest passages found in %s", inputPath)
	}

	if err := writeExcerpts(outputPath, excerpts); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Debug("digest converted", "input", inputPath, "output", outputPath, "excerpts", len(excerpts))
	return len(excerpts), nil
}

// writeExcerpts stores excerpts in the translated-digest JSON format,
// creating the parent directory when needed.
func writeExcerpts(path string, excerpts []domain.ExcerptEntry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := corpus.WriteExcerptsJSON(out, excerpts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (s *CorpusService) describe() string {
	var parts []string
	for _, p := range []string{s.paths.Glossary, s.paths.Topics, s.paths.Excerpts} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ",")
}
