package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/textnorm"
)

// ExcerptScoring selects how excerpts are scored against a query.
type ExcerptScoring string

const (
	// ScoringAdditive adds 100 for a whole-phrase hit plus 10 per matching token.
	ScoringAdditive ExcerptScoring = "additive"
	// ScoringFirstMatch gives 100 for a whole-phrase hit, else 10 if any token hits.
	ScoringFirstMatch ExcerptScoring = "first"
)

const (
	phraseScore = 100
	tokenScore  = 10
)

// ParseExcerptScoring validates a configured scoring name. Empty means ScoringAdditive.
func ParseExcerptScoring(s string) (ExcerptScoring, error) {
	switch ExcerptScoring(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoringAdditive:
		return ScoringAdditive, nil
	case ScoringFirstMatch, "first-match":
		return ScoringFirstMatch, nil
	}
	return "", fmt.Errorf("unknown excerpt scoring %q (want %q or %q)", s, ScoringAdditive, ScoringFirstMatch)
}

// ScoredExcerpt is an excerpt paired with its relevance score.
type ScoredExcerpt struct {
	Excerpt domain.ExcerptEntry
	Score   int
}

// ExcerptIndex ranks digest excerpts. The normalized source and translation
// of every excerpt are computed once in NewExcerptIndex.
type ExcerptIndex struct {
	entries    []domain.ExcerptEntry
	source     []string
	translated []string
	scoring    ExcerptScoring
	stop       textnorm.Stopwords
	minLen     int
	norm       *textnorm.Normalizer
}

// NewExcerptIndex builds an index over entries.
func NewExcerptIndex(entries []domain.ExcerptEntry, scoring ExcerptScoring, opts ...Option) *ExcerptIndex {
	o := buildOptions(opts)
	idx := &ExcerptIndex{
		entries:    entries,
		source:     make([]string, len(entries)),
		translated: make([]string, len(entries)),
		scoring:    scoring,
		stop:       o.stopwords,
		minLen:     o.minTokenLength,
		norm:       o.normalizer,
	}
	for i, e := range entries {
		idx.source[i] = o.normalizer.Normalize(e.SourceText)
		idx.translated[i] = o.normalizer.Normalize(e.TranslatedText)
	}
	return idx
}

// Len returns the number of indexed excerpts.
func (x *ExcerptIndex) Len() int { return len(x.entries) }

// Retrieve returns at most limit excerpts with a positive score, ordered by
// descending score. Equal scores keep corpus order.
func (x *ExcerptIndex) Retrieve(query string, limit int) []ScoredExcerpt {
	q := x.norm.Normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}
	tokens := textnorm.Tokenize(q, x.stop, x.minLen)

	var scored []ScoredExcerpt
	for i := range x.entries {
		score := x.score(x.source[i], x.translated[i], q, tokens)
		if score > 0 {
			scored = append(scored, ScoredExcerpt{Excerpt: x.entries[i], Score: score})
		}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (x *ExcerptIndex) score(source, translated, q string, tokens []string) int {
	if strings.Contains(source, q) || strings.Contains(translated, q) {
		if x.scoring == ScoringFirstMatch {
			return phraseScore
		}
		return phraseScore + x.tokenHits(source, translated, tokens)
	}
	if x.scoring == ScoringFirstMatch {
		for _, tok := range tokens {
			if strings.Contains(source, tok) || strings.Contains(translated, tok) {
				return tokenScore
			}
		}
		return 0
	}
	return x.tokenHits(source, translated, tokens)
}

func (x *ExcerptIndex) tokenHits(source, translated string, tokens []string) int {
	score := 0
	for _, tok := range tokens {
		if strings.Contains(source, tok) || strings.Contains(translated, tok) {
			score += tokenScore
		}
	}
	return score
}

// RetrieveExcerpts is the one-shot form of ExcerptIndex.Retrieve with
// default options.
func RetrieveExcerpts(query string, excerpts []domain.ExcerptEntry, limit int, scoring ExcerptScoring) []ScoredExcerpt {
	return NewExcerptIndex(excerpts, scoring).Retrieve(query, limit)
}
