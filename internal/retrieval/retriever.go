package retrieval

import (
	"context"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultExcerptLimit is the number of excerpts returned when unset.
const DefaultExcerptLimit = 3

// Config selects the retrieval strategies.
type Config struct {
	ExcerptLimit   int
	TopicStrategy  TopicStrategy
	ExcerptScoring ExcerptScoring
	// Overrides defaults to DefaultOverrides when nil. Pass an empty,
	// non-nil table to disable overrides.
	Overrides OverrideTable
}

// Result is the evidence gathered for one query.
type Result struct {
	Glossary *GlossaryMatch
	Page     domain.PageRef
	Excerpts []ScoredExcerpt
}

// Definition returns the matched definition, or "" when none matched.
func (r *Result) Definition() string {
	if r == nil || r.Glossary == nil {
		return ""
	}
	return r.Glossary.Entry.Definition
}

// Citations lists the excerpt citations in ranking order.
func (r *Result) Citations() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Excerpts))
	for _, e := range r.Excerpts {
		if e.Excerpt.Citation != "" {
			out = append(out, e.Excerpt.Citation)
		}
	}
	return out
}

// Retriever runs the three lookups over one corpus.Repository. It holds only
// read-only state and is safe for concurrent use.
type Retriever struct {
	glossary *Glossary
	topics   *TopicIndex
	excerpts *ExcerptIndex
	limit    int
}

// New builds the normalized views of repo.
func New(repo *corpus.Repository, cfg Config, opts ...Option) *Retriever {
	o := buildOptions(opts)
	if cfg.ExcerptLimit <= 0 {
		cfg.ExcerptLimit = DefaultExcerptLimit
	}
	if cfg.TopicStrategy == "" {
		cfg.TopicStrategy = TopicWhole
	}
	if cfg.ExcerptScoring == "" {
		cfg.ExcerptScoring = ScoringAdditive
	}
	if cfg.Overrides == nil {
		cfg.Overrides = DefaultOverrides
	}
	return &Retriever{
		glossary: NewGlossary(repo.Glossary(), cfg.Overrides, o.normalizer),
		topics:   NewTopicIndex(repo.Topics(), cfg.TopicStrategy, opts...),
		excerpts: NewExcerptIndex(repo.Excerpts(), cfg.ExcerptScoring, opts...),
		limit:    cfg.ExcerptLimit,
	}
}

// MatchGlossary looks up the definition for query.
func (r *Retriever) MatchGlossary(query string) (GlossaryMatch, bool) {
	return r.glossary.Match(query)
}

// LocatePage returns the manual page for query.
func (r *Retriever) LocatePage(query string) domain.PageRef {
	return r.topics.Locate(query)
}

// Excerpts returns the top excerpts for query.
func (r *Retriever) Excerpts(query string) []ScoredExcerpt {
	return r.excerpts.Retrieve(query, r.limit)
}

// Retrieve runs the glossary, topic and excerpt lookups concurrently.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*Result, error) {
	res := &Result{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if m, ok := r.glossary.Match(query); ok {
			res.Glossary = &m
		}
		return ctx.Err()
	})
	g.Go(func() error {
		res.Page = r.topics.Locate(query)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Excerpts = r.excerpts.Retrieve(query, r.limit)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
