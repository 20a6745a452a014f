// Package textnorm folds free-text queries and corpus passages into a
// comparable form: lowercase, no diacritics, no punctuation, single spaces.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPunctuation is the set of characters stripped by Default().
const DefaultPunctuation = `.,;:¡!¿?"'«»“”‘’()[]{}-—–/\*`

// Normalizer folds text. The zero value strips no punctuation; use New or
// Default. A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	punct map[rune]struct{}
}

// New returns a Normalizer that strips every rune in punctuation.
func New(punctuation string) *Normalizer {
	set := make(map[rune]struct{}, len(punctuation))
	for _, r := range punctuation {
		set[r] = struct{}{}
	}
	return &Normalizer{punct: set}
}

var defaultNormalizer = New(DefaultPunctuation)

// Default returns the shared Normalizer configured with DefaultPunctuation.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize lowercases text, removes diacritical marks ("posesión" becomes
// "posesion"), replaces configured punctuation with spaces and collapses
// whitespace. It never fails; invalid input degrades to a best-effort result.
// Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)

	// transform.Chain is stateful, so a fresh chain is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if _, ok := n.punct[r]; ok {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize folds text with the default Normalizer.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}
