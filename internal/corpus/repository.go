// Package corpus holds the three read-only reference tables (glossary, topic
// index, excerpt collection) and the loaders that build them at startup.
package corpus

import (
	"fmt"

	"github.com/alexanderramin/ulpiano/internal/domain"
)

// Repository is the immutable in-memory view of the corpora. It is built
// once by New (or a loader) and only read afterwards, so concurrent readers
// need no locking. Callers must not modify the returned slices.
type Repository struct {
	glossary []domain.GlossaryEntry
	topics   []domain.TopicEntry
	excerpts []domain.ExcerptEntry
}

// Stats reports table sizes.
type Stats struct {
	Glossary int `json:"glossary"`
	Topics   int `json:"topics"`
	Excerpts int `json:"excerpts"`
}

// New validates every entry and returns a Repository owning copies of the
// given tables. Load order is preserved; it defines tie-breaking downstream.
func New(glossary []domain.GlossaryEntry, topics []domain.TopicEntry, excerpts []domain.ExcerptEntry) (*Repository, error) {
	for i := range glossary {
		if err := glossary[i].Validate(); err != nil {
			return nil, fmt.Errorf("glossary[%d]: %w", i, err)
		}
	}
	for i := range topics {
		if err := topics[i].Validate(); err != nil {
			return nil, fmt.Errorf("topics[%d]: %w", i, err)
		}
	}
	for i := range excerpts {
		if err := excerpts[i].Validate(); err != nil {
			return nil, fmt.Errorf("excerpts[%d]: %w", i, err)
		}
	}
	return &Repository{
		glossary: append([]domain.GlossaryEntry(nil), glossary...),
		topics:   append([]domain.TopicEntry(nil), topics...),
		excerpts: append([]domain.ExcerptEntry(nil), excerpts...),
	}, nil
}

// Glossary returns the glossary table in load order.
func (r *Repository) Glossary() []domain.GlossaryEntry { return r.glossary }

// Topics returns the topic index in load order.
func (r *Repository) Topics() []domain.TopicEntry { return r.topics }

// Excerpts returns the excerpt collection in load order.
func (r *Repository) Excerpts() []domain.ExcerptEntry { return r.excerpts }

// Stats returns the number of entries per table.
func (r *Repository) Stats() Stats {
	return Stats{
		Glossary: len(r.glossary),
		Topics:   len(r.topics),
		Excerpts: len(r.excerpts),
	}
}
