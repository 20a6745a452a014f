package textnorm

import (
	"strings"
	"unicode/utf8"
)

// Stopwords is a set of normalized words ignored by Tokenize.
type Stopwords map[string]struct{}

// NewStopwords builds a set from the given words, normalizing each one.
func NewStopwords(words ...string) Stopwords {
	set := make(Stopwords, len(words))
	for _, w := range words {
		if w = Normalize(w); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Contains reports whether word is a stopword.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// SpanishStopwords covers the function words that survive the length filter
// in Spanish legal prose.
var SpanishStopwords = NewStopwords(
	"para", "como", "pero", "sobre", "entre", "cuando", "desde", "hasta",
	"donde", "porque", "tambien", "esta", "este", "estos", "estas", "esto",
	"aquel", "aquella", "ellos", "ellas", "nosotros", "vosotros", "sus",
	"cual", "cuales", "quien", "quienes", "cuyo", "cuya", "todo", "toda",
	"todos", "todas", "otro", "otra", "otros", "otras", "mismo", "misma",
	"sino", "segun", "sean", "sera", "seran", "habia", "haber", "hace",
	"tiene", "tienen", "puede", "pueden", "debe", "deben", "muy", "mas",
	"menos", "tanto", "cada", "algo", "nada", "ante", "bajo", "contra",
	"durante", "mediante", "tras", "dicho", "dicha", "dichos", "dichas",
	"que", "del", "los", "las", "una", "unos", "unas", "con", "por",
)

// DefaultMinTokenLength is the rune length a word must exceed to be a token.
const DefaultMinTokenLength = 3

// Tokenize splits an already normalized string on whitespace and keeps the
// words longer than minLen runes that are not stopwords. Order is preserved
// and duplicates are dropped. When no word survives, the whole normalized
// input is returned as the single token (nil for empty input).
func Tokenize(normalized string, stop Stopwords, minLen int) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tokens []string
	for _, word := range strings.Fields(normalized) {
		if utf8.RuneCountInString(word) <= minLen || stop.Contains(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		tokens = append(tokens, word)
	}
	if len(tokens) == 0 {
		return []string{normalized}
	}
	return tokens
}
