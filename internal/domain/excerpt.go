package domain

import (
	"fmt"
	"strings"
)

// ExcerptEntry is one passage of the translated excerpt collection: the
// original-language text, its translation, and a formal citation locator
// such as "Dig.1.1.1.0".
type ExcerptEntry struct {
	Citation       string
	SourceText     string
	TranslatedText string
}

// Validate checks that at least one of the texts is present.
func (e *ExcerptEntry) Validate() error {
	if strings.TrimSpace(e.SourceText) == "" && strings.TrimSpace(e.TranslatedText) == "" {
		return fmt.Errorf("excerpt %q: source or translated text is required", e.Citation)
	}
	return nil
}
