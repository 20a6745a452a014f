package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("el hurto de cosa mueble", SpanishStopwords, DefaultMinTokenLength)
	assert.Equal(t, []string{"hurto", "cosa", "mueble"}, tokens)
}

func TestTokenize_DropsStopwordsAndDuplicates(t *testing.T) {
	tokens := Tokenize("para hurto hurto sobre dolo", SpanishStopwords, DefaultMinTokenLength)
	assert.Equal(t, []string{"hurto"}, tokens)
}

func TestTokenize_FallsBackToWholeQuery(t *testing.T) {
	assert.Equal(t, []string{"ius"}, Tokenize("ius", SpanishStopwords, DefaultMinTokenLength))
	assert.Equal(t, []string{"de la"}, Tokenize("de la", SpanishStopwords, DefaultMinTokenLength))
}

func TestTokenize_Empty(t *testing.T) {
	assert.Nil(t, Tokenize("   ", SpanishStopwords, DefaultMinTokenLength))
}

func TestTokenize_RuneLength(t *testing.T) {
	// "año" is three runes but four bytes; it must not count as a token.
	assert.Equal(t, []string{"plazo"}, Tokenize("año plazo", nil, DefaultMinTokenLength))
}
