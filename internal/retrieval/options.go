package retrieval

import "github.com/alexanderramin/ulpiano/internal/textnorm"

type options struct {
	normalizer     *textnorm.Normalizer
	stopwords      textnorm.Stopwords
	minTokenLength int
}

// Option tunes how queries are normalized and tokenized.
type Option func(*options)

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *textnorm.Normalizer) Option {
	return func(o *options) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithStopwords replaces the Spanish stopword set.
func WithStopwords(s textnorm.Stopwords) Option {
	return func(o *options) { o.stopwords = s }
}

// WithMinTokenLength sets the rune length a word must exceed to be a token.
func WithMinTokenLength(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minTokenLength = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		normalizer:     textnorm.Default(),
		stopwords:      textnorm.SpanishStopwords,
		minTokenLength: textnorm.DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
