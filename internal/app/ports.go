package app

import (
	"context"

	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/repository"
)

// ImportCorpusUseCase copies the configured corpus files into the SQLite snapshot.
type ImportCorpusUseCase interface {
	ImportCorpus(ctx context.Context, dbPath string) (*ImportResult, error)
	LatestImport(ctx context.Context, dbPath string) (*repository.ImportRecord, error)
}

// ConvertDigestUseCase turns a raw digest (text or HTML) into the excerpt JSON
// format the loader reads.
type ConvertDigestUseCase interface {
	ConvertDigest(ctx context.Context, inputPath, outputPath string) (int, error)
}

// TranslateDigestUseCase fills the Spanish text of every fragment in an
// excerpt file and writes the result.
type TranslateDigestUseCase interface {
	TranslateDigest(ctx context.Context, inputPath, outputPath string, opts intelligence.TranslateOptions) (*TranslateResult, error)
}

type ImportResult struct {
	Record *repository.ImportRecord
	DBPath string
}

type TranslateResult struct {
	Report     intelligence.TranslateReport
	OutputPath string
}
