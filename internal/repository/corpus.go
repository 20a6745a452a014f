package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/ulpiano/internal/corpus"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptySnapshot is returned by Load before any corpus was imported.
	ErrEmptySnapshot = errors.New("corpus snapshot is empty; run `ulpiano corpus import`")
)

// ImportRecord describes one Replace call.
type ImportRecord struct {
	ID         string       `json:"id"`
	ImportedAt time.Time    `json:"imported_at"`
	Source     string       `json:"source,omitempty"`
	Stats      corpus.Stats `json:"stats"`
}

// CorpusRepo persists the reference tables as a snapshot.
type CorpusRepo interface {
	// Replace swaps every table for the contents of repo in one transaction.
	Replace(ctx context.Context, repo *corpus.Repository, source string) (*ImportRecord, error)
	// Load rebuilds the in-memory repository in original table order.
	Load(ctx context.Context) (*corpus.Repository, error)
	// LatestImport returns the most recent import, or ErrNotFound.
	LatestImport(ctx context.Context) (*ImportRecord, error)
}
