package domain

import (
	"fmt"
	"strings"
)

// GlossaryEntry is one term of the course glossary (the manual's definitions).
type GlossaryEntry struct {
	Term       string
	Definition string
	Synonyms   []string
}

// Validate checks that the entry carries a term.
func (g *GlossaryEntry) Validate() error {
	if strings.TrimSpace(g.Term) == "" {
		return fmt.Errorf("glossary entry: term is required")
	}
	return nil
}
