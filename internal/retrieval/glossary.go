// Package retrieval finds the local evidence for a query: the glossary
// definition, the manual page and the best matching digest excerpts.
package retrieval

import (
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/textnorm"
)

// Tier records which precedence level produced a glossary match.
type Tier int

const (
	TierNone Tier = iota
	TierOverride
	TierExact
	TierSynonym
	TierSubstring
)

func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierExact:
		return "exact"
	case TierSynonym:
		return "synonym"
	case TierSubstring:
		return "substring"
	default:
		return "none"
	}
}

// GlossaryMatch is the definition selected for a query.
type GlossaryMatch struct {
	Entry domain.GlossaryEntry
	Tier  Tier
}

// Override is a fixed definition returned ahead of the glossary tiers.
// Keys are compared against the normalized query; with Contains set a key
// matches anywhere in the query, otherwise the whole query must equal it.
type Override struct {
	Term       string
	Keys       []string
	Contains   bool
	Definition string
}

// OverrideTable is consulted in order before any glossary lookup.
type OverrideTable []Override

const possessionDefinition = `En Roma había dos clases de posesión: natural (solo corpus) y civil (corpus y animus domini) AMBAS FORMAS DE POSESIÓN TENÍAN PROTECCIÓN INTERDICTAL. Había una serie de casos, llamados "detentadores" (por ejemplo los arrendatarios) que, por razones desconocidas, no tenían protección de los interdictos.`

// DefaultOverrides carries the possession rule taught in the course: any
// query mentioning possession or interdicts gets the same definition.
var DefaultOverrides = OverrideTable{
	{
		Term:       "Posesión",
		Keys:       []string{"posesion", "interdictos"},
		Contains:   true,
		Definition: possessionDefinition,
	},
}

// Match returns the first override whose key matches the normalized query.
func (t OverrideTable) Match(normalized string) (Override, bool) {
	if normalized == "" {
		return Override{}, false
	}
	for _, o := range t {
		for _, key := range o.Keys {
			key = textnorm.Normalize(key)
			if key == "" {
				continue
			}
			if normalized == key || (o.Contains && strings.Contains(normalized, key)) {
				return o, true
			}
		}
	}
	return Override{}, false
}

// Glossary matches queries against a glossary table whose terms and
// synonyms are normalized once at construction.
type Glossary struct {
	entries   []domain.GlossaryEntry
	terms     []string
	synonyms  [][]string
	overrides OverrideTable
	norm      *textnorm.Normalizer
}

// NewGlossary precomputes the normalized view of entries. A nil normalizer
// uses textnorm.Default.
func NewGlossary(entries []domain.GlossaryEntry, overrides OverrideTable, norm *textnorm.Normalizer) *Glossary {
	if norm == nil {
		norm = textnorm.Default()
	}
	g := &Glossary{
		entries:   entries,
		terms:     make([]string, len(entries)),
		synonyms:  make([][]string, len(entries)),
		overrides: overrides,
		norm:      norm,
	}
	for i, e := range entries {
		g.terms[i] = norm.Normalize(e.Term)
		for _, s := range e.Synonyms {
			if s = norm.Normalize(s); s != "" {
				g.synonyms[i] = append(g.synonyms[i], s)
			}
		}
	}
	return g
}

// Match applies, in order: the override table, exact term, exact synonym,
// and term containing the query. Within a tier the first entry in table
// order wins. An empty query never matches.
func (g *Glossary) Match(query string) (GlossaryMatch, bool) {
	q := g.norm.Normalize(query)
	if q == "" {
		return GlossaryMatch{}, false
	}

	if o, ok := g.overrides.Match(q); ok {
		return GlossaryMatch{
			Entry: domain.GlossaryEntry{Term: o.Term, Definition: o.Definition},
			Tier:  TierOverride,
		}, true
	}

	for i, term := range g.terms {
		if term == q {
			return GlossaryMatch{Entry: g.entries[i], Tier: TierExact}, true
		}
	}
	for i, syns := range g.synonyms {
		for _, s := range syns {
			if s == q {
				return GlossaryMatch{Entry: g.entries[i], Tier: TierSynonym}, true
			}
		}
	}
	for i, term := range g.terms {
		if strings.Contains(term, q) {
			return GlossaryMatch{Entry: g.entries[i], Tier: TierSubstring}, true
		}
	}
	return GlossaryMatch{}, false
}

// MatchGlossary is the one-shot form of Glossary.Match using the default
// normalizer.
func MatchGlossary(query string, table []domain.GlossaryEntry, overrides OverrideTable) (GlossaryMatch, bool) {
	return NewGlossary(table, overrides, nil).Match(query)
}
