package retrieval

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/textnorm"
)

// TopicStrategy selects how LocatePage scores index entries.
type TopicStrategy string

const (
	// TopicWhole scores the query as a single term.
	TopicWhole TopicStrategy = "whole"
	// TopicToken scores each content word of the query.
	TopicToken TopicStrategy = "token"
)

// ParseTopicStrategy validates a configured strategy name. Empty means TopicWhole.
func ParseTopicStrategy(s string) (TopicStrategy, error) {
	switch TopicStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TopicWhole:
		return TopicWhole, nil
	case TopicToken:
		return TopicToken, nil
	}
	return "", fmt.Errorf("unknown topic strategy %q (want %q or %q)", s, TopicWhole, TopicToken)
}

type normalizedTopic struct {
	title      string
	titleWords []string
	keywords   []string
}

// TopicIndex locates the manual page for a query.
type TopicIndex struct {
	entries    []domain.TopicEntry
	normalized []normalizedTopic
	strategy   TopicStrategy
	stop       textnorm.Stopwords
	minLen     int
	norm       *textnorm.Normalizer
}

// NewTopicIndex precomputes normalized titles and keywords.
func NewTopicIndex(entries []domain.TopicEntry, strategy TopicStrategy, opts ...Option) *TopicIndex {
	o := buildOptions(opts)
	idx := &TopicIndex{
		entries:    entries,
		normalized: make([]normalizedTopic, len(entries)),
		strategy:   strategy,
		stop:       o.stopwords,
		minLen:     o.minTokenLength,
		norm:       o.normalizer,
	}
	for i, e := range entries {
		title := o.normalizer.Normalize(e.Title)
		nt := normalizedTopic{title: title, titleWords: strings.Fields(title)}
		for _, k := range e.Keywords {
			if k = o.normalizer.Normalize(k); k != "" {
				nt.keywords = append(nt.keywords, k)
			}
		}
		idx.normalized[i] = nt
	}
	return idx
}

// Locate returns the highest scoring entry. Ties keep the earlier entry and
// a best score of zero means no reference.
func (x *TopicIndex) Locate(query string) domain.PageRef {
	q := x.norm.Normalize(query)
	if q == "" {
		return domain.PageRef{}
	}

	var tokens []string
	if x.strategy == TopicToken {
		tokens = textnorm.Tokenize(q, x.stop, x.minLen)
	}

	best, bestScore := -1, 0
	for i := range x.normalized {
		var score int
		if x.strategy == TopicToken {
			score = scoreTopicTokens(&x.normalized[i], tokens)
		} else {
			score = scoreTopicWhole(&x.normalized[i], q)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return domain.PageRef{}
	}
	e := x.entries[best]
	return domain.PageRef{Page: e.Page, Title: e.Title}
}

// scoreTopicWhole: +10 when a keyword equals the query, +5 when the title
// contains it, +3 when a keyword contains it.
func scoreTopicWhole(t *normalizedTopic, q string) int {
	score := 0
	var equal, contains bool
	for _, k := range t.keywords {
		if k == q {
			equal = true
		}
		if strings.Contains(k, q) {
			contains = true
		}
	}
	if equal {
		score += 10
	}
	if strings.Contains(t.title, q) {
		score += 5
	}
	if contains {
		score += 3
	}
	return score
}

// scoreTopicTokens, per token: +10 when a title word equals it (else +2 when
// the title contains it), +5 per keyword equal to it and +3 per keyword that
// only contains it.
func scoreTopicTokens(t *normalizedTopic, tokens []string) int {
	score := 0
	for _, tok := range tokens {
		titleWord := false
		for _, w := range t.titleWords {
			if w == tok {
				titleWord = true
				break
			}
		}
		switch {
		case titleWord:
			score += 10
		case strings.Contains(t.title, tok):
			score += 2
		}
		for _, k := range t.keywords {
			switch {
			case k == tok:
				score += 5
			case strings.Contains(k, tok):
				score += 3
			}
		}
	}
	return score
}

// LocatePage is the one-shot form of TopicIndex.Locate with default options.
func LocatePage(query string, topics []domain.TopicEntry, strategy TopicStrategy) domain.PageRef {
	return NewTopicIndex(topics, strategy).Locate(query)
}
